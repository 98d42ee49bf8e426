// Package curriculum holds the fixed NTSA driving-test topic catalog.
package curriculum

// GeneralTitle is the quiz subject used when no topic is selected.
const GeneralTitle = "General Driving Knowledge"

// Topic is one unit of the driving curriculum.
type Topic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

var topics = []Topic{
	{ID: "intro", Title: "Introduction to Driving", Icon: "🚗"},
	{ID: "rules", Title: "Fundamental Driving Rules", Icon: "📜"},
	{ID: "modeltown", Title: "Model Town", Icon: "🏙️"},
	{ID: "human", Title: "Human Factors", Icon: "🧠"},
	{ID: "controls", Title: "Vehicle Construction & Controls", Icon: "⚙️"},
	{ID: "inspection", Title: "Self-Inspection", Icon: "🔍"},
	{ID: "observation", Title: "Observation", Icon: "👀"},
	{ID: "control", Title: "Vehicle Control", Icon: "🎮"},
	{ID: "comm", Title: "Communication", Icon: "📡"},
	{ID: "speed", Title: "Speed Management", Icon: "🚀"},
	{ID: "space", Title: "Space Management", Icon: "↔️"},
	{ID: "emergency", Title: "Emergency Manoeuvres", Icon: "⚠️"},
	{ID: "skid", Title: "Skid Control", Icon: "❄️"},
	{ID: "adverse", Title: "Adverse Conditions", Icon: "🌧️"},
	{ID: "maintenance", Title: "Preventive Maintenance", Icon: "🔧"},
	{ID: "signs", Title: "Traffic Signs", Icon: "🛑"},
	{ID: "exam", Title: "The Examination", Icon: "📝"},
}

// All returns the catalog in display order. The slice is a copy.
func All() []Topic {
	out := make([]Topic, len(topics))
	copy(out, topics)
	return out
}

// Lookup returns the topic with the given ID.
func Lookup(id string) (Topic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// SubjectTitle returns the title a quiz or notes request should use for t.
func SubjectTitle(t *Topic) string {
	if t == nil {
		return GeneralTitle
	}
	return t.Title
}
