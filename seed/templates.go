/*
templates.go - Appointment title/description templates

PURPOSE:
  Appointment titles and descriptions come from templates with named
  placeholders, so deployments can reword them (per locale, or via a
  settings backend) without touching the seeder. Substitution is
  restricted to an allow-listed key set; anything else in the template
  passes through verbatim.

PLACEHOLDERS:
  {customer} {model} {accessory} {project} {city}
*/
package seed

import "strings"

// allowedPlaceholders is the closed set of keys Render substitutes.
var allowedPlaceholders = []string{"customer", "model", "accessory", "project", "city"}

// TemplateSource supplies the appointment text templates for a locale.
// The default implementation is static; a settings-backed source can be
// swapped in without touching the orchestrator.
type TemplateSource interface {
	MountTitle(locale string) string
	MountDescription(locale string) string
	ReklTitle(locale string) string
	ReklDescription(locale string) string
}

// StaticTemplates is the built-in TemplateSource.
type StaticTemplates struct{}

func (StaticTemplates) MountTitle(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "de") {
		return "Montage {model} – {customer}"
	}
	return "Mount {model} – {customer}"
}

func (StaticTemplates) MountDescription(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "de") {
		return "Montage {model} für {customer}, {city}. Zubehör: {accessory}."
	}
	return "Installation of {model} for {customer}, {city}. Accessory: {accessory}."
}

func (StaticTemplates) ReklTitle(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "de") {
		return "Reklamation {model} – {customer}"
	}
	return "Follow-up {model} – {customer}"
}

func (StaticTemplates) ReklDescription(locale string) string {
	if strings.HasPrefix(strings.ToLower(locale), "de") {
		return "Nacharbeit an {accessory} ({project})."
	}
	return "Rework on {accessory} ({project})."
}

// Render substitutes the allow-listed placeholders in template. Keys
// missing from values become empty strings; placeholders outside the
// allow list stay untouched.
func Render(template string, values map[string]string) string {
	out := template
	for _, key := range allowedPlaceholders {
		out = strings.ReplaceAll(out, "{"+key+"}", values[key])
	}
	return out
}
