package services

import (
	"errors"
	"testing"

	"killprocess/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubIcons resolves every bundle to "<bundle>/icon.icns" and records calls.
type stubIcons struct {
	calls []string
	err   error
}

func (s *stubIcons) Resolve(bundlePath string) (string, error) {
	s.calls = append(s.calls, bundlePath)
	if bundlePath == "" {
		return testDefaultIcon, nil
	}
	if s.err != nil {
		return testDefaultIcon, s.err
	}
	return bundlePath + "/icon.icns", nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantType   models.ApplicationType
		wantTitle  string
		wantSub    string
		wantBundle string
	}{
		{
			name:       "application bundle",
			path:       "/Applications/Notes.app/Contents/MacOS/Notes",
			wantType:   models.Application,
			wantTitle:  "Notes.app",
			wantSub:    "1.5% CPU @ /Applications/Notes.app",
			wantBundle: "/Applications/Notes.app",
		},
		{
			name:       "helper inside another bundle",
			path:       "/Applications/Visual Studio Code.app/Contents/Frameworks/Code Helper.app/Contents/MacOS/Code Helper",
			wantType:   models.Service,
			wantTitle:  "Code Helper.app",
			wantSub:    "1.5% CPU @ /Applications/Visual Studio Code.app/Contents/Frameworks/Code Helper.app/Contents/MacOS/Code Helper",
			wantBundle: "/Applications/Visual Studio Code.app",
		},
		{
			name:       "system library bundle",
			path:       "/System/Library/CoreServices/Finder.app/Contents/MacOS/Finder",
			wantType:   models.Service,
			wantTitle:  "Finder.app",
			wantSub:    "1.5% CPU @ /System/Library/CoreServices/Finder.app",
			wantBundle: "/System/Library/CoreServices/Finder.app",
		},
		{
			name:       "system library without bundle",
			path:       "/System/Library/PrivateFrameworks/Foo.framework/foo -d",
			wantType:   models.Service,
			wantTitle:  "/System/Library/PrivateFrameworks/Foo.framework/foo -d",
			wantSub:    "1.5% CPU @ ",
			wantBundle: "",
		},
		{
			name:       "bare executable",
			path:       "/usr/sbin/cupsd",
			wantType:   models.Executable,
			wantTitle:  "/usr/sbin/cupsd",
			wantSub:    "1.5% CPU @ /usr/sbin/cupsd",
			wantBundle: "",
		},
		{
			name:       "executable with arguments",
			path:       "/usr/bin/python3 -m http.server",
			wantType:   models.Executable,
			wantTitle:  "/usr/bin/python3",
			wantSub:    "1.5% CPU @ /usr/bin/python3 -m http.server",
			wantBundle: "",
		},
		{
			name:       "executable with incidental bundle marker",
			path:       "/usr/bin/open /Users/me/Tools.app",
			wantType:   models.Executable,
			wantTitle:  "/usr/bin/open",
			wantSub:    "1.5% CPU @ /usr/bin/open /Users/me/Tools.app",
			wantBundle: "/usr/bin/open /Users/me/Tools.app",
		},
		{
			name:       "single segment",
			path:       "/Applications",
			wantType:   models.Application,
			wantTitle:  "/Applications",
			wantSub:    "1.5% CPU @ ",
			wantBundle: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			icons := &stubIcons{}
			record := models.ProcessRecord{PID: "77", CPUPercent: "1.5", CommandPath: tt.path}

			got, err := Classify(record, icons)
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantTitle, got.Title)
			assert.Equal(t, tt.wantSub, got.Subtitle)
			assert.Equal(t, "77", got.UID)
			assert.Equal(t, "77", got.Arg)
			assert.Equal(t, "pid: 77, cpu 1.5%, path: "+tt.path, got.Text.Copy)
			assert.Equal(t, []string{tt.wantBundle}, icons.calls)
			assert.NotEmpty(t, got.Icon.Path)
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	record := models.ProcessRecord{PID: "1", CPUPercent: "0.0", CommandPath: "/Applications/Notes.app/Contents/MacOS/Notes"}

	first, err := Classify(record, &stubIcons{})
	require.NoError(t, err)
	second, err := Classify(record, &stubIcons{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClassifyKeepsItemWhenIconFails(t *testing.T) {
	iconErr := &ManifestError{Path: "/Applications/Bad.app/Contents/Info.plist", Err: errors.New("bad")}
	record := models.ProcessRecord{PID: "5", CPUPercent: "0.0", CommandPath: "/Applications/Bad.app/Contents/MacOS/Bad"}

	got, err := Classify(record, &stubIcons{err: iconErr})

	assert.ErrorIs(t, err, iconErr)
	assert.Equal(t, testDefaultIcon, got.Icon.Path)
	assert.Equal(t, "Bad.app", got.Title)
	assert.Equal(t, models.Application, got.Type)
}
