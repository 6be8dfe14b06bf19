package vanilla

// ChromeClasses overrides the CSS classes of the form chrome. Empty entries
// keep the defaults.
type ChromeClasses struct {
	Form    string
	Header  string
	Section string
	Actions string
	Errors  string
}

const (
	DefaultFormClass    = "autoform-form"
	DefaultHeaderClass  = "autoform-header"
	DefaultSectionClass = "autoform-section"
	DefaultActionsClass = "autoform-actions"
	DefaultErrorsClass  = "autoform-errors"
)

func (c ChromeClasses) withDefaults() map[string]string {
	pick := func(value, fallback string) string {
		if value = sanitizeClassList(value); value != "" {
			return value
		}
		return fallback
	}
	return map[string]string{
		"form":    pick(c.Form, DefaultFormClass),
		"header":  pick(c.Header, DefaultHeaderClass),
		"section": pick(c.Section, DefaultSectionClass),
		"actions": pick(c.Actions, DefaultActionsClass),
		"errors":  pick(c.Errors, DefaultErrorsClass),
	}
}
