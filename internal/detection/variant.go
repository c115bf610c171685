package detection

import "fmt"

// Variant names the kind of object a run looks for. It appears in every
// archived file name.
type Variant string

const (
	VariantFaceFrontal Variant = "face_frontal"
	VariantBody        Variant = "body"
)

// Variants lists the known variants.
func Variants() []Variant {
	return []Variant{VariantFaceFrontal, VariantBody}
}

// ParseVariant validates s as a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown variant %q", s)
}

// DefaultModel returns the conventional model file name for the variant on
// the given backend, or "" when the backend ships no model for it.
func (v Variant) DefaultModel(backend string) string {
	switch backend {
	case BackendOpenCV:
		switch v {
		case VariantFaceFrontal:
			return "haarcascade_frontalface_default.xml"
		case VariantBody:
			return "haarcascade_fullbody.xml"
		}
	case BackendPigo, "":
		if v == VariantFaceFrontal {
			return "facefinder"
		}
	}
	return ""
}
