package checkout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oapi-codegen/runtime"
)

// CustomFieldKind is the wire name of a custom field type.
type CustomFieldKind string

const (
	CustomFieldCheckbox CustomFieldKind = "Checkbox"
	CustomFieldText     CustomFieldKind = "Text"
)

// CustomFieldType is either a checkbox or a text field, each with an optional
// default value. Build it with Checkbox, Text, CheckboxDefault or TextDefault.
type CustomFieldType struct {
	kind     CustomFieldKind
	checkbox *bool
	text     *string
}

func Checkbox(def *bool) CustomFieldType {
	t := CustomFieldType{kind: CustomFieldCheckbox}
	if def != nil {
		v := *def
		t.checkbox = &v
	}
	return t
}

func Text(def *string) CustomFieldType {
	t := CustomFieldType{kind: CustomFieldText}
	if def != nil {
		v := *def
		t.text = &v
	}
	return t
}

func CheckboxDefault(def bool) CustomFieldType { return Checkbox(&def) }

func TextDefault(def string) CustomFieldType { return Text(&def) }

func (t CustomFieldType) Kind() CustomFieldKind { return t.kind }

// Default returns the default value (bool or string) and whether one is set.
func (t CustomFieldType) Default() (any, bool) {
	switch {
	case t.kind == CustomFieldCheckbox && t.checkbox != nil:
		return *t.checkbox, true
	case t.kind == CustomFieldText && t.text != nil:
		return *t.text, true
	}
	return nil, false
}

// patch is the part of a custom field object contributed by its type.
func (t CustomFieldType) patch() (json.RawMessage, error) {
	p := struct {
		Type  CustomFieldKind `json:"type"`
		Value any             `json:"value,omitempty"`
	}{Type: t.kind}

	switch t.kind {
	case CustomFieldCheckbox:
		if t.checkbox != nil {
			p.Value = *t.checkbox
		}
	case CustomFieldText:
		if t.text != nil {
			p.Value = *t.text
		}
	case "":
		return nil, errors.New("checkout: custom field type is not set")
	default:
		return nil, fmt.Errorf("checkout: unknown custom field type %q", t.kind)
	}
	return json.Marshal(p)
}

// CustomField is a single checkbox or text input shown in a CustomFieldGroup.
type CustomField struct {
	ID            string                             `json:"id" validate:"required,max=50"`
	Name          string                             `json:"name" validate:"required"`
	Type          CustomFieldType                    `json:"type"`
	Localizations map[string]CustomFieldLocalization `json:"localizations,omitempty"`
	Metadata      *Value                             `json:"metadata,omitempty"`
}

type customFieldBase struct {
	ID            string                             `json:"id"`
	Name          string                             `json:"name"`
	Localizations map[string]CustomFieldLocalization `json:"localizations,omitempty"`
	Metadata      *Value                             `json:"metadata,omitempty"`
}

// MarshalJSON flattens the type into "type" and, when a default is set,
// "value" next to the field's own keys.
//
// Only the scalar head goes through JSONMerge, which re-sorts keys;
// localizations and metadata are appended as encoded so Value member order
// survives.
func (f CustomField) MarshalJSON() ([]byte, error) {
	head, err := json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{ID: f.ID, Name: f.Name})
	if err != nil {
		return nil, err
	}
	patch, err := f.Type.patch()
	if err != nil {
		return nil, fmt.Errorf("custom field %q: %w", f.ID, err)
	}
	merged, err := runtime.JSONMerge(head, patch)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(bytes.TrimSpace(merged), []byte("}")))
	if len(f.Localizations) > 0 {
		if err := appendMember(&buf, "localizations", f.Localizations); err != nil {
			return nil, err
		}
	}
	if f.Metadata != nil {
		if err := appendMember(&buf, "metadata", f.Metadata); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func appendMember(buf *bytes.Buffer, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("custom field %s: %w", key, err)
	}
	buf.WriteString(`,"` + key + `":`)
	buf.Write(raw)
	return nil
}

func (f *CustomField) UnmarshalJSON(data []byte) error {
	var raw struct {
		customFieldBase
		Type  CustomFieldKind `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var t CustomFieldType
	hasValue := len(raw.Value) > 0 && string(raw.Value) != "null"
	switch raw.Type {
	case CustomFieldCheckbox:
		t = Checkbox(nil)
		if hasValue {
			var b bool
			if err := json.Unmarshal(raw.Value, &b); err != nil {
				return fmt.Errorf("custom field %q: checkbox value: %w", raw.ID, err)
			}
			t.checkbox = &b
		}
	case CustomFieldText:
		t = Text(nil)
		if hasValue {
			var s string
			if err := json.Unmarshal(raw.Value, &s); err != nil {
				return fmt.Errorf("custom field %q: text value: %w", raw.ID, err)
			}
			t.text = &s
		}
	default:
		return fmt.Errorf("custom field %q: unknown type %q", raw.ID, raw.Type)
	}

	*f = CustomField{
		ID:            raw.ID,
		Name:          raw.Name,
		Type:          t,
		Localizations: raw.Localizations,
		Metadata:      raw.Metadata,
	}
	return nil
}
