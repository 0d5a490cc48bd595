package services

import (
	"fmt"
	"strings"

	"killprocess/internal/models"
)

const bundleMarker = ".app"

// Classify turns a parsed process into a display item. Paths under
// /Applications or /System are bundle-based: a process nested in a second
// bundle (a helper) or living under /System/Library is a Service, the rest
// are Applications. Anything else is a bare Executable.
//
// The returned error comes from icon resolution only; the item is always
// usable and falls back to the default icon.
func Classify(record models.ProcessRecord, icons IconResolver) (models.ClassifiedApplication, error) {
	path := record.CommandPath
	segments := splitSegments(path)

	// more than one bundle segment means a helper nested in its parent app
	var bundles []string
	for _, segment := range segments {
		if strings.Contains(segment, bundleMarker) {
			bundles = append(bundles, segment)
		}
	}
	helper := len(bundles) > 1
	bundlePath := bundlePathOf(path)

	copyText := fmt.Sprintf("pid: %s, cpu %s%%, path: %s", record.PID, record.CPUPercent, path)
	iconPath, err := icons.Resolve(bundlePath)

	if segmentAt(segments, 0) == "Applications" || segmentAt(segments, 0) == "System" {
		title := path
		if len(bundles) > 0 {
			title = bundles[len(bundles)-1]
		}
		location := bundlePath
		if helper {
			location = path
		}

		appType := models.Application
		if helper || segmentAt(segments, 1) == "Library" {
			appType = models.Service
		}

		return models.NewClassifiedApplication(
			record.PID,
			title,
			subtitle(record.CPUPercent, location),
			copyText,
			iconPath,
			appType,
		), err
	}

	title := strings.Split(strings.TrimSpace(path), " ")[0]
	return models.NewClassifiedApplication(
		record.PID,
		title,
		subtitle(record.CPUPercent, path),
		copyText,
		iconPath,
		models.Executable,
	), err
}

// bundlePathOf returns path up to and including the first ".app", or "".
func bundlePathOf(path string) string {
	idx := strings.Index(path, bundleMarker)
	if idx < 0 {
		return ""
	}
	return path[:idx+len(bundleMarker)]
}

func splitSegments(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func segmentAt(segments []string, i int) string {
	if i < len(segments) {
		return segments[i]
	}
	return ""
}

func subtitle(cpu, location string) string {
	return fmt.Sprintf("%s%% CPU @ %s", cpu, location)
}
