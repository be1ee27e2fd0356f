package entity

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidPrescription = errors.New("prescription must be text or a list of items")

type PrescriptionKind string

const (
	PrescriptionKindText  PrescriptionKind = "text"
	PrescriptionKindItems PrescriptionKind = "items"
)

// PrescriptionItem is one line of a structured prescription.
type PrescriptionItem struct {
	Medicine     string `json:"medicine"`
	Dosage       string `json:"dosage,omitempty"`
	Frequency    string `json:"frequency,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is either free text or a list of items. The zero value is an
// empty prescription and encodes as JSON null.
//
// On the wire the text variant is a JSON string and the structured variant a
// JSON array, so clients never see the Kind field.
type Prescription struct {
	Kind  PrescriptionKind
	Text  string
	Items []PrescriptionItem
}

func TextPrescription(text string) Prescription {
	if strings.TrimSpace(text) == "" {
		return Prescription{}
	}
	return Prescription{Kind: PrescriptionKindText, Text: text}
}

func ItemsPrescription(items []PrescriptionItem) Prescription {
	if len(items) == 0 {
		return Prescription{}
	}
	return Prescription{Kind: PrescriptionKindItems, Items: items}
}

func (p Prescription) IsZero() bool {
	return p.Kind == ""
}

// ParsePrescription reads a prescription sent as a form field: a JSON array
// or JSON string is decoded, anything else is kept as free text.
func ParsePrescription(raw string) (Prescription, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Prescription{}, nil
	}
	switch trimmed[0] {
	case '[', '"', '{':
		var p Prescription
		if err := p.UnmarshalJSON([]byte(trimmed)); err != nil {
			return Prescription{}, err
		}
		return p, nil
	}
	return TextPrescription(raw), nil
}

func (p Prescription) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PrescriptionKindText:
		return json.Marshal(p.Text)
	case PrescriptionKindItems:
		return json.Marshal(p.Items)
	}
	return []byte("null"), nil
}

func (p *Prescription) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = Prescription{}
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return ErrInvalidPrescription
		}
		*p = TextPrescription(text)
		return nil
	case '[':
		var items []PrescriptionItem
		if err := json.Unmarshal(data, &items); err != nil {
			return ErrInvalidPrescription
		}
		*p = ItemsPrescription(items)
		return nil
	}
	return ErrInvalidPrescription
}

// Value implements driver.Valuer
func (p Prescription) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (p *Prescription) Scan(value interface{}) error {
	if value == nil {
		*p = Prescription{}
		return nil
	}
	b, err := jsonBytes(value)
	if err != nil {
		return err
	}
	return p.UnmarshalJSON(b)
}
