package models

// ProcessRecord is one parsed line of the process table. Values are kept
// verbatim because they are only ever redisplayed.
type ProcessRecord struct {
	PID         string
	CPUPercent  string
	CommandPath string
}

// ApplicationType classifies a process for ranking. The zero value is
// Executable, which is also the fallback.
type ApplicationType int

const (
	Executable ApplicationType = iota
	Service
	Application
)

// Rank orders types for display: Application, then Service, then Executable.
func (t ApplicationType) Rank() int {
	switch t {
	case Application:
		return 0
	case Service:
		return 1
	default:
		return 2
	}
}

func (t ApplicationType) String() string {
	switch t {
	case Application:
		return "application"
	case Service:
		return "service"
	default:
		return "executable"
	}
}

// CopyText is the clipboard payload of a result item.
type CopyText struct {
	Copy string `json:"copy"`
}

// Icon points at the icon file shown next to a result item.
type Icon struct {
	Path string `json:"path"`
}

// ClassifiedApplication is one display-ready result item. The JSON field
// names are consumed by the launcher UI and must not change.
type ClassifiedApplication struct {
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	UID      string          `json:"uid"`
	Text     CopyText        `json:"text"`
	Arg      string          `json:"arg"`
	Icon     Icon            `json:"icon"`
	Type     ApplicationType `json:"-"`
}

// NewClassifiedApplication builds an item whose uid and arg are both the pid.
func NewClassifiedApplication(pid, title, subtitle, copyText, iconPath string, appType ApplicationType) ClassifiedApplication {
	return ClassifiedApplication{
		Title:    title,
		Subtitle: subtitle,
		UID:      pid,
		Text:     CopyText{Copy: copyText},
		Arg:      pid,
		Icon:     Icon{Path: iconPath},
		Type:     appType,
	}
}

// ResultList is the document written for the launcher.
type ResultList struct {
	Items []ClassifiedApplication `json:"items"`
}

// NewResultList returns a list whose Items encode as [] rather than null.
func NewResultList(items ...ClassifiedApplication) *ResultList {
	if items == nil {
		items = []ClassifiedApplication{}
	}
	return &ResultList{Items: items}
}
