package referral

import "time"

// Status follows a referral from intake through to the patient showing
// up at the clinic.
type Status string

const (
	StatusNew      Status = "new"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusArrived  Status = "arrived"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusSent, StatusAccepted, StatusRejected, StatusArrived:
		return true
	}
	return false
}

// transitions lists the statuses reachable from each status. Arrived and
// rejected are terminal.
var transitions = map[Status][]Status{
	StatusNew:      {StatusSent, StatusAccepted, StatusRejected},
	StatusSent:     {StatusAccepted, StatusRejected, StatusArrived},
	StatusAccepted: {StatusArrived, StatusRejected},
}

// CanTransition reports whether a referral may move from s to next.
func (s Status) CanTransition(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Referral is an incoming patient referral: who is being sent to the
// clinic, by whom, and for what. Secretaries work the queue and move
// each referral through its statuses; an accepted referral usually
// turns into an appointment carrying the referral id.
type Referral struct {
	ID                 string    `json:"id"`
	PatientName        string    `json:"patient_name"`
	Phone              string    `json:"phone,omitempty"`
	Email              string    `json:"email,omitempty"`
	ReferringDoctor    string    `json:"referring_doctor,omitempty"`
	Physician          string    `json:"physician,omitempty"`
	TargetSpecialty    string    `json:"target_specialty,omitempty"`
	Intervention       string    `json:"intervention,omitempty"`
	Urgency            string    `json:"urgency,omitempty"`
	ConsultationReason string    `json:"consultation_reason,omitempty"`
	Establishment      string    `json:"establishment,omitempty"`
	Insurance          string    `json:"insurance,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Criteria narrows referral listings. Zero value matches everything.
type Criteria struct {
	Statuses []Status
	Query    string
	From     *time.Time
	To       *time.Time
}

func (c Criteria) Empty() bool {
	return len(c.Statuses) == 0 && c.Query == "" && c.From == nil && c.To == nil
}

// Stats aggregates the referral queue for the direction dashboard.
type Stats struct {
	Total       int            `json:"total"`
	ByStatus    map[Status]int `json:"by_status"`
	ByPhysician map[string]int `json:"by_physician"`
	ByInsurance map[string]int `json:"by_insurance"`
	ByDay       map[string]int `json:"by_day"`
}

// ComputeStats buckets referrals by status, physician, insurance and
// creation day. Missing physician or insurance falls into "unassigned".
func ComputeStats(refs []Referral) Stats {
	st := Stats{
		Total:       len(refs),
		ByStatus:    map[Status]int{},
		ByPhysician: map[string]int{},
		ByInsurance: map[string]int{},
		ByDay:       map[string]int{},
	}
	for _, r := range refs {
		st.ByStatus[r.Status]++
		phys := r.Physician
		if phys == "" {
			phys = "unassigned"
		}
		st.ByPhysician[phys]++
		ins := r.Insurance
		if ins == "" {
			ins = "unassigned"
		}
		st.ByInsurance[ins]++
		if !r.CreatedAt.IsZero() {
			st.ByDay[r.CreatedAt.Format("2006-01-02")]++
		}
	}
	return st
}
