package meetings

import (
	"bytes"
	"encoding/json"
)

// DecodeCreate parses a create request body. Every key in RequiredCreateFields
// must be present (a null value counts as present). meetingId and
// creationDateUTC may be empty; the store fills them in.
func DecodeCreate(body []byte) (Meeting, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return Meeting{}, err
	}

	var missing []string
	for _, k := range RequiredCreateFields {
		if _, ok := fields[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return Meeting{}, &ValidationError{Missing: missing}
	}

	var m Meeting
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"meetingId", &m.MeetingID},
		{"subject", &m.Subject},
		{"organizerId", &m.OrganizerID},
		{"organizerName", &m.OrganizerName},
		{"startDateUTC", &m.StartDateUTC},
		{"endDateUTC", &m.EndDateUTC},
		{"creationDateUTC", &m.CreationDateUTC},
	} {
		v, err := stringField(fields, f.key)
		if err != nil {
			return Meeting{}, err
		}
		if v != nil {
			*f.dst = *v
		}
	}
	for _, f := range []struct {
		key string
		dst *bool
	}{
		{"isPrivate", &m.IsPrivate},
		{"isCancelled", &m.IsCancelled},
	} {
		v, err := boolField(fields, f.key)
		if err != nil {
			return Meeting{}, err
		}
		if v != nil {
			*f.dst = *v
		}
	}
	return m, nil
}

// DecodeUpdate parses a partial update body. Keys that are not meeting fields
// are ignored. An empty body is an empty update.
func DecodeUpdate(body []byte) (FieldUpdates, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return FieldUpdates{}, err
	}

	var u FieldUpdates
	strs := []struct {
		key string
		dst **string
	}{
		{"meetingId", &u.MeetingID},
		{"subject", &u.Subject},
		{"organizerId", &u.OrganizerID},
		{"organizerName", &u.OrganizerName},
		{"startDateUTC", &u.StartDateUTC},
		{"endDateUTC", &u.EndDateUTC},
		{"creationDateUTC", &u.CreationDateUTC},
	}
	for _, f := range strs {
		v, err := stringField(fields, f.key)
		if err != nil {
			return FieldUpdates{}, err
		}
		*f.dst = v
	}
	if u.MeetingID != nil && *u.MeetingID == "" {
		return FieldUpdates{}, &ValidationError{Field: "meetingId", Reason: "must not be empty"}
	}

	bools := []struct {
		key string
		dst **bool
	}{
		{"isPrivate", &u.IsPrivate},
		{"isCancelled", &u.IsCancelled},
	}
	for _, f := range bools {
		v, err := boolField(fields, f.key)
		if err != nil {
			return FieldUpdates{}, err
		}
		*f.dst = v
	}
	return u, nil
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &ValidationError{Reason: "request body must be a JSON object"}
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, nil
}

// stringField returns nil when key is absent; null decodes to "".
func stringField(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ValidationError{Field: key, Reason: "must be a string"}
	}
	if v == nil {
		v = new(string)
	}
	return v, nil
}

// boolField returns nil when key is absent; null decodes to false.
func boolField(fields map[string]json.RawMessage, key string) (*bool, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}
	var v *bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &ValidationError{Field: key, Reason: "must be a boolean"}
	}
	if v == nil {
		v = new(bool)
	}
	return v, nil
}
