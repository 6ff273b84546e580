package blog

// FormInput carries candidate post fields as they arrive from a form or
// API request, before any type checking. Absent fields are nil.
type FormInput struct {
	Title    any
	Slug     any
	Content  any
	ImageURL any
}

// ValidatePostData checks a FormInput and either returns a normalized
// PostData or a *ValidationError with a user-facing reason. It is a pure
// function: no store access, no side effects.
//
// Rules, first failure wins:
//   - title, slug, and content must be present and non-empty
//   - title, slug, and content must be strings
//   - imageUrl, when present, must be a string (nil is treated as absent)
func ValidatePostData(in FormInput) (PostData, error) {
	if isBlank(in.Title) || isBlank(in.Slug) || isBlank(in.Content) {
		return PostData{}, &ValidationError{Reason: "Title, slug, and content are required"}
	}

	title, titleOK := in.Title.(string)
	slug, slugOK := in.Slug.(string)
	content, contentOK := in.Content.(string)
	if !titleOK || !slugOK || !contentOK {
		return PostData{}, &ValidationError{Reason: "Invalid form data"}
	}

	imageURL := ""
	if in.ImageURL != nil {
		s, ok := in.ImageURL.(string)
		if !ok {
			return PostData{}, &ValidationError{Reason: "Image URL must be a valid string"}
		}
		imageURL = s
	}

	return PostData{
		Title:    title,
		Slug:     slug,
		Content:  content,
		ImageURL: imageURL,
	}, nil
}

// isBlank reports whether a form value is missing or falsy: nil, the empty
// string, false, or a zero number.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}
