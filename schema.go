package portal

// Kind tags a declared schema field. The schema layer maps declared fields
// to accessor names by a fixed convention; it has no runtime behavior of its
// own beyond name formatting; portalgen consumes it to emit typed accessor
// wrappers.
type Kind string

const (
	// KindValue is a typed attribute value on the controller root
	// (data-<identifier>-<name>-value).
	KindValue Kind = "Value"

	// KindTarget is a named element binding (data-<identifier>-target).
	KindTarget Kind = "Target"

	// KindClass is a named CSS class looked up from the controller root
	// (data-<identifier>-<name>-class).
	KindClass Kind = "Class"

	// KindOutlet is a selector reference to another controller's elements
	// (data-<identifier>-<name>-outlet).
	KindOutlet Kind = "Outlet"
)

// Field is one declared schema entry: a kebab-case name, a kind tag, and an
// optional default (used by value kinds).
type Field struct {
	Name    string `json:"name"`
	Kind    Kind   `json:"kind"`
	Default string `json:"default,omitempty"`
}

// AccessorName returns the primary accessor name for a field:
// camel(name) + Kind, e.g. "contentTarget", "userIdValue".
func AccessorName(f Field) string {
	return lowerCamel(f.Name) + string(f.Kind)
}

// ExistentialName returns the presence-check accessor name:
// "has" + Capitalized(name) + Kind, e.g. "hasContentTarget".
func ExistentialName(f Field) string {
	return "has" + upperCamel(f.Name) + string(f.Kind)
}

// PluralName returns the collection accessor name:
// camel(name) + Kind + "s", e.g. "contentTargets". Class pluralizes to
// "Classes".
func PluralName(f Field) string {
	if f.Kind == KindClass {
		return lowerCamel(f.Name) + "Classes"
	}
	return AccessorName(f) + "s"
}

// ConnectedHookName returns the conventional name of the hook invoked when
// a target element binds: camel(name) + "TargetConnected".
func ConnectedHookName(name string) string {
	return lowerCamel(name) + "TargetConnected"
}

// DisconnectedHookName returns the conventional name of the hook invoked
// when a target element unbinds.
func DisconnectedHookName(name string) string {
	return lowerCamel(name) + "TargetDisconnected"
}
