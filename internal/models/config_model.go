package models

import "time"

// Config document IDs inside the config collection.
const (
	AIConfigDoc          = "ai"
	MaintenanceConfigDoc = "maintenance"
)

// AIConfig holds the model parameters used by the AI service.
type AIConfig struct {
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens"`
	SystemPrompt string  `json:"systemPrompt"`
}

// DefaultAIConfig returns the configuration used when the ai config
// document has never been written.
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		Model:        "gpt-3.5-turbo",
		Temperature:  0.7,
		MaxTokens:    1000,
		SystemPrompt: "You are a helpful assistant.",
	}
}

// AIConfigFromDoc decodes the ai config document, substituting defaults for
// any field the document does not carry. A nil document yields the defaults.
func AIConfigFromDoc(data map[string]interface{}) *AIConfig {
	cfg := DefaultAIConfig()
	if data == nil {
		return cfg
	}
	if m := docString(data, "model"); m != "" {
		cfg.Model = m
	}
	if t, ok := docFloat(data, "temperature"); ok {
		cfg.Temperature = t
	}
	if n, ok := docInt(data, "maxTokens"); ok {
		cfg.MaxTokens = n
	}
	if p, ok := data["systemPrompt"].(string); ok {
		cfg.SystemPrompt = p
	}
	return cfg
}

// ServiceFlag is the per-subservice availability switch nested inside the
// maintenance document. Polarity is inverted relative to the global flag:
// Enabled=true means the service is AVAILABLE, so putting a subservice into
// maintenance sets Enabled=false. Downstream availability checks depend on
// this inversion.
type ServiceFlag struct {
	Enabled   bool       `json:"enabled"`
	Message   string     `json:"message,omitempty"`
	EnabledAt *time.Time `json:"enabledAt,omitempty"`
	EnabledBy string     `json:"enabledBy,omitempty"`
}

// PlannedWindow describes a scheduled future maintenance window.
type PlannedWindow struct {
	Enabled     bool       `json:"enabled"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	Message     string     `json:"message,omitempty"`
	ScheduledBy string     `json:"scheduledBy,omitempty"`
}

// MaintenanceConfig is the decoded maintenance config document.
type MaintenanceConfig struct {
	Enabled         bool          `json:"enabled"`
	Message         string        `json:"message,omitempty"`
	EnabledAt       *time.Time    `json:"enabledAt,omitempty"`
	EnabledBy       string        `json:"enabledBy,omitempty"`
	PartialServices []string      `json:"partialServices"`
	AIService       ServiceFlag   `json:"aiService"`
	LicenseService  ServiceFlag   `json:"licenseService"`
	Planned         PlannedWindow `json:"plannedMaintenance"`
}

// DefaultMaintenanceConfig returns the state of a system that has never had
// a maintenance toggle written: nothing under maintenance, all subservices
// available.
func DefaultMaintenanceConfig() *MaintenanceConfig {
	return &MaintenanceConfig{
		PartialServices: []string{},
		AIService:       ServiceFlag{Enabled: true},
		LicenseService:  ServiceFlag{Enabled: true},
	}
}

func serviceFlagFromDoc(data map[string]interface{}) ServiceFlag {
	f := ServiceFlag{Enabled: true}
	if data == nil {
		return f
	}
	if enabled, ok := docBool(data, "enabled"); ok {
		f.Enabled = enabled
	}
	f.Message = docString(data, "message")
	f.EnabledAt = docTime(data, "enabledAt")
	f.EnabledBy = docString(data, "enabledBy")
	return f
}

// MaintenanceFromDoc decodes the maintenance config document. Absence of the
// document or of any nested field is a valid initial state, never an error.
func MaintenanceFromDoc(data map[string]interface{}) *MaintenanceConfig {
	cfg := DefaultMaintenanceConfig()
	if data == nil {
		return cfg
	}
	cfg.Enabled, _ = docBool(data, "enabled")
	cfg.Message = docString(data, "message")
	cfg.EnabledAt = docTime(data, "enabledAt")
	cfg.EnabledBy = docString(data, "enabledBy")
	if s := docStrings(data, "partialServices"); s != nil {
		cfg.PartialServices = s
	}
	if m := docMap(data, "aiService"); m != nil {
		cfg.AIService = serviceFlagFromDoc(m)
	}
	if m := docMap(data, "licenseService"); m != nil {
		cfg.LicenseService = serviceFlagFromDoc(m)
	}
	if m := docMap(data, "plannedMaintenance"); m != nil {
		cfg.Planned.Enabled, _ = docBool(m, "enabled")
		cfg.Planned.ScheduledAt = docTime(m, "scheduledAt")
		cfg.Planned.Message = docString(m, "message")
		cfg.Planned.ScheduledBy = docString(m, "scheduledBy")
	}
	return cfg
}
