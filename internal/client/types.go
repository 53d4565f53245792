package client

// Student as carried in API payloads. DisplayName is resolved once, when a
// payload is decoded, so consumers never re-derive name fallbacks.
type Student struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// normalize fills DisplayName when the server omitted it.
func (s *Student) normalize() {
	if s.DisplayName != "" {
		return
	}
	switch {
	case s.FirstName != "" || s.LastName != "":
		name := s.FirstName
		if s.LastName != "" {
			if name != "" {
				name += " "
			}
			name += s.LastName
		}
		s.DisplayName = name
	case s.Email != "":
		s.DisplayName = s.Email
	default:
		s.DisplayName = "Unknown"
	}
}

// AttendanceRecord is one student's status on one meeting. The student name
// fields are denormalized onto the record so walk-ins can be rendered even
// when the student is not in the enrolled or waitlist payloads.
type AttendanceRecord struct {
	StudentID        uint   `json:"student_id"`
	StudentName      string `json:"student_name"`
	StudentFirstName string `json:"student_first_name"`
	StudentLastName  string `json:"student_last_name"`
	Status           string `json:"status"`
	Note             string `json:"note"`
}

// RecordInput is the save-attendance wire shape.
type RecordInput struct {
	StudentID uint   `json:"student_id"`
	Status    string `json:"status"`
	Note      string `json:"note"`
}

// Meeting is the resolved (activity, date) occurrence with its context and
// participant snapshots.
type Meeting struct {
	ID               uint               `json:"id"`
	ActivityID       uint               `json:"activity_id"`
	Date             string             `json:"date"`
	ActivityType     string             `json:"activity_type"`
	ActivityTime     string             `json:"activity_time"`
	ActivityLocation string             `json:"activity_location"`
	SessionName      string             `json:"session_name"`
	OrganizationName string             `json:"organization_name"`
	Records          []AttendanceRecord `json:"attendance_records"`
	Enrolled         []Student          `json:"enrolled_students"`
	Waitlist         []Student          `json:"waitlist_students"`
}

// Activity is a recurring class slot with its display context.
type Activity struct {
	ID               uint   `json:"id"`
	Type             string `json:"type"`
	DayOfWeek        string `json:"day_of_week"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	SessionID        uint   `json:"session_id"`
	SessionName      string `json:"session_name"`
	OrganizationID   uint   `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	EnrolledCount    int    `json:"enrolled_count"`
	WaitlistCount    int    `json:"waitlist_count"`
}

// ActivityDetail is an activity plus its current enrollment snapshots.
type ActivityDetail struct {
	Activity Activity  `json:"activity"`
	Students []Student `json:"students"`
	Waitlist []Student `json:"waitlist"`
}

// Cancellation marks one activity occurrence as not held.
type Cancellation struct {
	ID               uint   `json:"id"`
	ActivityID       uint   `json:"activity_id"`
	Date             string `json:"date"`
	Reason           string `json:"reason"`
	ActivityType     string `json:"activity_type"`
	ActivityDay      string `json:"activity_day"`
	ActivityTime     string `json:"activity_time"`
	ActivityLocation string `json:"activity_location"`
	SessionName      string `json:"session_name"`
	OrganizationName string `json:"organization_name"`
}

// Session is a date-bounded period containing activities.
type Session struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	OrganizationID   uint   `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Closed           bool   `json:"closed"`
}
