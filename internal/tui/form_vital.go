package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/MKhiriev/go-care-keeper/models"
)

const (
	vitalRecipient = iota
	vitalKind
	vitalValue
	vitalUnit
	vitalFieldCount
)

type formVitalModel struct {
	inputs []textinput.Model
	focus  int
}

// newFormVitalModel keeps the recipient of the previous entry so a caregiver
// can log several readings in a row.
func newFormVitalModel(recipient string) formVitalModel {
	inputs := make([]textinput.Model, vitalFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
	}
	inputs[vitalKind].Placeholder = "pulse"
	inputs[vitalUnit].Placeholder = "bpm"
	inputs[vitalRecipient].SetValue(recipient)

	m := formVitalModel{inputs: inputs}
	if recipient != "" {
		m.focus = vitalKind
	}
	m.inputs[m.focus].Focus()
	return m
}

func (m *formVitalModel) move(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
}

func (m formVitalModel) toVital(now time.Time) models.VitalSign {
	return models.VitalSign{
		RecipientID: strings.TrimSpace(m.inputs[vitalRecipient].Value()),
		Kind:        strings.TrimSpace(m.inputs[vitalKind].Value()),
		Value:       strings.TrimSpace(m.inputs[vitalValue].Value()),
		Unit:        strings.TrimSpace(m.inputs[vitalUnit].Value()),
		MeasuredAt:  now,
	}
}

func (m formVitalModel) View() string {
	out := "Новое измерение\n\n"
	out += "Получатель: [" + m.inputs[vitalRecipient].View() + "]\n"
	out += "Показатель: [" + m.inputs[vitalKind].View() + "]\n"
	out += "Значение:   [" + m.inputs[vitalValue].View() + "]\n"
	out += "Единица:    [" + m.inputs[vitalUnit].View() + "]\n"
	return out
}
