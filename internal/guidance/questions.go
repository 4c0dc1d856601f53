package guidance

import "fmt"

// Track selects the fresher question bank.
type Track string

const (
	TrackSoftware Track = "software"
	TrackHardware Track = "hardware"
)

// ParseTrack converts a flag value into a Track.
func ParseTrack(s string) (Track, error) {
	switch t := Track(s); t {
	case TrackSoftware, TrackHardware:
		return t, nil
	}
	return "", fmt.Errorf("unknown track %q (want software or hardware)", s)
}

// Question is one multiple-choice onboarding question for freshers.
type Question struct {
	ID      string
	Prompt  string
	Options []string
}

// SoftwareQuestions is the onboarding bank for software freshers.
var SoftwareQuestions = []Question{
	{
		ID:     "workEnvironment",
		Prompt: "Which type of work environment do you thrive in?",
		Options: []string{
			"Collaborative team environment",
			"Independent work with minimal supervision",
			"Fast-paced, high-pressure environment",
			"Structured, process-oriented environment",
		},
	},
	{
		ID:     "motivation",
		Prompt: "What motivates you most in your work?",
		Options: []string{
			"Solving complex technical problems",
			"Creative expression and innovation",
			"Helping people and making an impact",
			"Financial success and career advancement",
		},
	},
	{
		ID:     "learningStyle",
		Prompt: "How do you prefer to learn new technologies?",
		Options: []string{
			"Hands-on projects and experimentation",
			"Structured courses and tutorials",
			"Learning from mentors and peers",
			"Reading documentation and research",
		},
	},
	{
		ID:     "areaOfInterest",
		Prompt: "Which area excites you the most?",
		Options: []string{
			"Web and Mobile Development",
			"Artificial Intelligence & Machine Learning",
			"Data Science and Analytics",
			"Cybersecurity and Network Systems",
		},
	},
	{
		ID:     "problemSolving",
		Prompt: "How do you handle challenging situations?",
		Options: []string{
			"Break down problems analytically",
			"Seek help from team members",
			"Research solutions thoroughly",
			"Trust intuition and experience",
		},
	},
	{
		ID:     "projectType",
		Prompt: "What type of projects interest you most?",
		Options: []string{
			"User-facing applications and interfaces",
			"Backend systems and infrastructure",
			"Data analysis and insights",
			"Automation and process optimization",
		},
	},
}

// HardwareQuestions is the onboarding bank for hardware freshers.
var HardwareQuestions = []Question{
	{
		ID:     "excites",
		Prompt: "What excites you the most about hardware?",
		Options: []string{
			"Opening gadgets to see how they work",
			"Fixing/assembling computers or electronics",
			"Learning how chips, sensors, and devices communicate",
			"Working with machines like robots, drones, or IoT devices",
		},
	},
	{
		ID:     "subjects",
		Prompt: "Which subjects did you enjoy the most during school/college?",
		Options: []string{
			"Physics (electricity, circuits)",
			"Computer basics (networking, hardware)",
			"Mathematics (problem solving, logic)",
			"Mechanical/Practical labs",
		},
	},
	{
		ID:     "workType",
		Prompt: "Which type of work sounds interesting?",
		Options: []string{
			"Assembling or testing devices",
			"Installing and maintaining equipment (field work)",
			"Learning to design circuits or boards",
			"Learning to write simple code for devices",
		},
	},
	{
		ID:     "workEnvironment",
		Prompt: "Where would you feel most comfortable working as a fresher?",
		Options: []string{
			"In a lab or workshop (assembling/testing hardware)",
			"At a customer site (installing or repairing hardware)",
			"In an office (designing or learning on computer tools)",
			"In a factory or production floor (manufacturing hardware)",
		},
	},
	{
		ID:     "companyType",
		Prompt: "What kind of company would you like to join first?",
		Options: []string{
			"Electronics manufacturing (TVs, phones, appliances)",
			"Computer hardware or networking company",
			"Power/energy sector (solar, EVs, batteries)",
			"Telecom/communication company",
		},
	},
}

// QuestionsFor returns the bank for track, or nil for an unknown track.
func QuestionsFor(track Track) []Question {
	switch track {
	case TrackSoftware:
		return SoftwareQuestions
	case TrackHardware:
		return HardwareQuestions
	}
	return nil
}
