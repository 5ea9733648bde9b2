package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const MailTypeScheduleCommitted = "schedule_committed"

type ScheduleCommittedMailData struct {
	FullName        string `json:"fullName"`
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	OpenDays        int    `json:"openDays"`
	AssignmentCount int    `json:"assignmentCount"`
}
