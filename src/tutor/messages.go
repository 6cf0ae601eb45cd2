package tutor

import (
	"fmt"
	"os"

	"redox_tutor/src/model"

	"gopkg.in/yaml.v3"
)

// Messages is the student-facing text catalog
type Messages struct {
	Success        string                `yaml:"success"`
	Retry          string                `yaml:"retry"`
	AnalysisFailed string                `yaml:"analysis_failed"`
	StepLabel      string                `yaml:"step_label"` // fmt verb receives the step number
	DefaultName    string                `yaml:"default_name"`
	DefaultEmail   string                `yaml:"default_email"`
	Categories     map[model.Step]string `yaml:"categories"`
}

// DefaultMessages returns the built-in Vietnamese catalog
func DefaultMessages() Messages {
	return Messages{
		Success:        "Chúc mừng em đã làm đúng!",
		Retry:          "Cố gắng làm lại nhé!",
		AnalysisFailed: "Không thể phân tích phương trình này. Vui lòng thử lại.",
		StepLabel:      "Bước %d",
		DefaultName:    "Học sinh",
		DefaultEmail:   "hocsinh@example.com",
		Categories: map[model.Step]string{
			model.Step1: "Sai số oxi hóa hoặc chất",
			model.Step2: "Sai quá trình e",
			model.Step3: "Sai hệ số thăng bằng",
			model.Step4: "Sai hệ số phương trình",
		},
	}
}

// LoadMessages overlays the YAML file at path on the defaults. An empty path
// returns the defaults.
func LoadMessages(path string) (Messages, error) {
	messages := DefaultMessages()
	if path == "" {
		return messages, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return messages, fmt.Errorf("failed to read messages file: %w", err)
	}
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return messages, fmt.Errorf("failed to parse messages file: %w", err)
	}
	return messages, nil
}

// Label names a step in telemetry, e.g. "Bước 2"
func (m Messages) Label(step model.Step) string {
	return fmt.Sprintf(m.StepLabel, int(step))
}

// Category is the fixed error description reported for a failed step
func (m Messages) Category(step model.Step) string {
	return m.Categories[step]
}
