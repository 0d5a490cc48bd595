package services

import (
	"regexp"
	"strings"

	"killprocess/internal/models"
)

// selfMarker keeps the tool from listing its own invocation.
const selfMarker = "kill_process"

// pid, %cpu (either decimal separator), then the rest of the line as args
var processLinePattern = regexp.MustCompile(`^\s*(\d+)\s+(\d+[.,]\d+)\s+(.*)$`)

// ParseLine extracts a record from one line of `ps -o pid,%cpu,args`
// output. Lines that do not look like a process row (headers, blanks) are
// reported with ok == false.
func ParseLine(line string) (models.ProcessRecord, bool) {
	caps := processLinePattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if caps == nil {
		return models.ProcessRecord{}, false
	}
	return models.ProcessRecord{
		PID:         caps[1],
		CPUPercent:  caps[2],
		CommandPath: strings.TrimSpace(caps[3]),
	}, true
}

// MatchesQuery reports whether the executable part of commandPath contains
// query. The executable part is everything before the first " -"; query is
// expected to be lowercase already.
func MatchesQuery(commandPath, query string) bool {
	parts := strings.Split(strings.TrimSpace(commandPath), " -")
	if len(parts) == 0 {
		return false
	}
	executable := strings.ToLower(parts[0])
	if strings.Contains(executable, "-"+query) || strings.Contains(executable, selfMarker) {
		return false
	}
	return strings.Contains(executable, query)
}

// FilterLines parses raw process-table text and keeps the rows matching
// query, in input order.
func FilterLines(raw, query string) []models.ProcessRecord {
	query = strings.ToLower(query)

	var records []models.ProcessRecord
	for _, line := range strings.Split(raw, "\n") {
		record, ok := ParseLine(line)
		if !ok {
			continue
		}
		if !MatchesQuery(record.CommandPath, query) {
			continue
		}
		records = append(records, record)
	}
	return records
}
