package faq

// Field describes one writable FAQ attribute.
type Field struct {
	Name     string
	Required bool
	RichText bool
}

const msgBlank = "This field may not be blank."
const msgRequired = "This field is required."

// Schema lists the writable fields in display order. IDs and timestamps are owned by the service.
var Schema = []Field{
	{Name: "question", Required: true, RichText: true},
	{Name: "answer", Required: true, RichText: true},
}

// cleanField sanitizes a submitted value and reports the message to show when it is unusable.
func cleanField(f Field, raw string) (string, string) {
	value := raw
	if f.RichText {
		value = SanitizeRichText(raw)
	}
	if PlainText(value) == "" {
		return "", msgBlank
	}
	return value, ""
}

// validateCreate checks a full payload against the schema. An absent required field is
// "required"; a submitted one with no visible text is "blank".
func validateCreate(req CreateRequest) (string, string, FieldErrors) {
	values := map[string]*string{"question": req.Question, "answer": req.Answer}
	cleaned := map[string]string{}
	errs := FieldErrors{}
	for _, f := range Schema {
		raw := values[f.Name]
		if raw == nil {
			if f.Required {
				errs[f.Name] = append(errs[f.Name], msgRequired)
			}
			continue
		}
		value, msg := cleanField(f, *raw)
		if msg != "" {
			errs[f.Name] = append(errs[f.Name], msg)
			continue
		}
		cleaned[f.Name] = value
	}
	if len(errs) > 0 {
		return "", "", errs
	}
	return cleaned["question"], cleaned["answer"], nil
}

// validateUpdate checks only the fields present in a partial payload.
func validateUpdate(req UpdateRequest) (UpdateRequest, FieldErrors) {
	values := map[string]*string{"question": req.Question, "answer": req.Answer}
	errs := FieldErrors{}
	out := map[string]*string{}
	for _, f := range Schema {
		raw := values[f.Name]
		if raw == nil {
			continue
		}
		cleaned, msg := cleanField(f, *raw)
		if msg != "" {
			errs[f.Name] = append(errs[f.Name], msg)
			continue
		}
		out[f.Name] = &cleaned
	}
	if len(errs) > 0 {
		return UpdateRequest{}, errs
	}
	return UpdateRequest{Question: out["question"], Answer: out["answer"]}, nil
}
