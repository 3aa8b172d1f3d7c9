package domain

import (
	"fmt"
	"strings"
	"time"
)

// Priority represents the alert priority level.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) String() string { return string(p) }

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func ParsePriorityFromString(s string) (Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" {
		return "", fmt.Errorf("%w: invalid priority %q", ErrValidation, s)
	}

	p := Priority(strings.ToUpper(normalized[:1]) + normalized[1:])
	if !p.IsValid() {
		return "", fmt.Errorf("%w: invalid priority %q", ErrValidation, s)
	}
	return p, nil
}

// Equipment describes the device an alert is about.
type Equipment struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Model           string `json:"model,omitempty"`
	Location        string `json:"location,omitempty"`
	Status          string `json:"status,omitempty"`
	SerialNumber    string `json:"serialNumber,omitempty"`
	LastMaintenance string `json:"lastMaintenance,omitempty"`
	NextMaintenance string `json:"nextMaintenance,omitempty"`
}

// Issue describes the problem being reported.
type Issue struct {
	Type        string `json:"type"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
	ReportedBy  string `json:"reportedBy,omitempty"`
}

// AlertPayload is the caller-constructed alert content, passed through to
// the notification provider as the trigger payload.
type AlertPayload struct {
	Message        string
	Priority       Priority
	Equipment      Equipment
	Issue          Issue
	ActionRequired string
}

func (a *AlertPayload) Validate() error {
	if strings.TrimSpace(a.Message) == "" {
		return fmt.Errorf("%w: alert message is required", ErrValidation)
	}
	if !a.Priority.IsValid() {
		return fmt.Errorf("%w: invalid priority %q", ErrValidation, a.Priority)
	}
	return nil
}

// AlertEvent is a typed notification kind. Each kind owns its provider
// workflow name and builds its trigger payload at a single serialization
// boundary instead of assembling loose JSON at call sites.
type AlertEvent interface {
	EventName() string
	EventPayload() map[string]any
}

// EquipmentAlert is the alert kind dispatched by the upload route.
type EquipmentAlert struct {
	Alert AlertPayload
}

func (e EquipmentAlert) EventName() string { return "medical-equipment-alert" }

func (e EquipmentAlert) EventPayload() map[string]any {
	return map[string]any{
		"alert": map[string]any{
			"message":        e.Alert.Message,
			"priority":       e.Alert.Priority.String(),
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
			"equipment":      e.Alert.Equipment,
			"issue":          e.Alert.Issue,
			"actionRequired": e.Alert.ActionRequired,
		},
	}
}

// DeviceRiskAlert signals a device trending toward a failure-risk threshold.
type DeviceRiskAlert struct {
	DeviceID     string
	DeviceName   string
	DeviceType   string
	RiskLevel    string
	Performance  float64
	Manufacturer string
	Location     string
	Priority     Priority
}

func (e DeviceRiskAlert) EventName() string { return "device-risk-alert" }

func (e DeviceRiskAlert) EventPayload() map[string]any {
	return map[string]any{
		"deviceId":     e.DeviceID,
		"deviceName":   e.DeviceName,
		"deviceType":   e.DeviceType,
		"riskLevel":    e.RiskLevel,
		"performance":  e.Performance,
		"manufacturer": e.Manufacturer,
		"location":     e.Location,
		"priority":     e.Priority.String(),
		"alertTime":    time.Now().UTC().Format(time.RFC3339),
	}
}

// CriticalDeviceAlert signals a predicted imminent device failure.
type CriticalDeviceAlert struct {
	DeviceID             string
	DeviceName           string
	PredictedFailureTime string
	RecommendedActions   []string
}

func (e CriticalDeviceAlert) EventName() string { return "critical-device-alert" }

func (e CriticalDeviceAlert) EventPayload() map[string]any {
	return map[string]any{
		"deviceId":             e.DeviceID,
		"deviceName":           e.DeviceName,
		"predictedFailureTime": e.PredictedFailureTime,
		"recommendedActions":   e.RecommendedActions,
		"priority":             PriorityHigh.String(),
		"actionRequired":       "Immediate attention required",
		"alertTime":            time.Now().UTC().Format(time.RFC3339),
	}
}

// ManufacturerAlert flags degraded manufacturer-level performance.
type ManufacturerAlert struct {
	ManufacturerName string
	DeviceCount      int
	Performance      float64
	ActiveAlerts     int
	Status           string
	Priority         Priority
}

func (e ManufacturerAlert) EventName() string { return "manufacturer-performance-alert" }

func (e ManufacturerAlert) EventPayload() map[string]any {
	return map[string]any{
		"manufacturerName": e.ManufacturerName,
		"deviceCount":      e.DeviceCount,
		"performance":      e.Performance,
		"activeAlerts":     e.ActiveAlerts,
		"status":           e.Status,
		"priority":         e.Priority.String(),
		"actionRequired":   "Review manufacturer performance",
		"alertTime":        time.Now().UTC().Format(time.RFC3339),
	}
}
