package jdk

import "fmt"

// DownloadURL is offered when no installed JDK can be used.
const DownloadURL = "https://adoptium.net/"

// Action is the remediation a Failure offers to the user.
type Action string

const (
	ActionOpenURL      Action = "open-url"
	ActionOpenSettings Action = "open-settings"
)

// Failure means resolution cannot proceed. Callers are expected to stop
// starting the language server and surface the remediation.
type Failure struct {
	Message string `json:"message" yaml:"message"`
	Label   string `json:"label" yaml:"label"`
	Action  Action `json:"action" yaml:"action"`
	// Target is the URL for ActionOpenURL or the setting key for ActionOpenSettings.
	Target string `json:"target" yaml:"target"`
}

func (f *Failure) Error() string {
	return f.Message
}

func noCompatibleJDK(required int) *Failure {
	return &Failure{
		Message: fmt.Sprintf("Java %d or more recent is required to run the Java extension. Please download and install a recent JDK.", required),
		Label:   "Get the Java Development Kit",
		Action:  ActionOpenURL,
		Target:  DownloadURL,
	}
}

func noProjectJDK() *Failure {
	return &Failure{
		Message: "No Java runtime was found for the project. Please download and install a JDK.",
		Label:   "Get the Java Development Kit",
		Action:  ActionOpenURL,
		Target:  DownloadURL,
	}
}

func configuredHomeTooOld(setting, home string, found, required int) *Failure {
	return &Failure{
		Message: fmt.Sprintf("%s points to %s (Java %d) but Java %d or more recent is required.", setting, home, found, required),
		Label:   "Open Settings",
		Action:  ActionOpenSettings,
		Target:  setting,
	}
}
