package dashboard

// Section is one of the mutually exclusive dashboard views.
type Section int

const (
	SectionProfile Section = iota
	SectionEvents
	SectionDeleteAccount
)

// Sections lists every section in menu order.
var Sections = []Section{SectionProfile, SectionEvents, SectionDeleteAccount}

func (s Section) String() string {
	switch s {
	case SectionProfile:
		return "profile"
	case SectionEvents:
		return "events"
	case SectionDeleteAccount:
		return "delete-account"
	default:
		panic("dashboard: unknown section")
	}
}

// Title is the menu label.
func (s Section) Title() string {
	switch s {
	case SectionProfile:
		return "Profile"
	case SectionEvents:
		return "Events"
	case SectionDeleteAccount:
		return "Delete Account"
	default:
		panic("dashboard: unknown section")
	}
}

func ParseSection(v string) (Section, bool) {
	for _, s := range Sections {
		if s.String() == v {
			return s, true
		}
	}
	return 0, false
}
