package host

// Notification is a call recorded by Recorder.
type Notification struct {
	Level   Level
	Message string
	Actions []string
}

// Recorder is a Host that records every call. Answers are scripted through
// the exported fields.
type Recorder struct {
	// Action is returned from Notify when it is one of the offered actions.
	Action string
	// ChoiceValue selects the choice PromptChoice returns.
	ChoiceValue string

	Notifications []Notification
	Prompts       []string
	Reloads       []string
	Opened        []string
}

func (r *Recorder) Notify(level Level, message string, actions ...string) (string, error) {
	r.Notifications = append(r.Notifications, Notification{Level: level, Message: message, Actions: actions})
	for _, a := range actions {
		if a == r.Action {
			return a, nil
		}
	}
	return "", nil
}

func (r *Recorder) PromptChoice(title string, choices []Choice) (*Choice, error) {
	r.Prompts = append(r.Prompts, title)
	for i := range choices {
		if choices[i].Value == r.ChoiceValue {
			return &choices[i], nil
		}
	}
	return nil, ErrNoChoice
}

func (r *Recorder) TriggerReload(reason string) error {
	r.Reloads = append(r.Reloads, reason)
	return nil
}

func (r *Recorder) Open(target string) error {
	r.Opened = append(r.Opened, target)
	return nil
}
