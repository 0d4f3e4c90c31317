package model

// JobRole is a specific role inside a career cluster.
type JobRole struct {
	Title           string  `json:"title"`
	MatchPercentage float64 `json:"matchPercentage"`
}

// CareerCluster is a broad occupational grouping recommended to the user.
type CareerCluster struct {
	Cluster          string    `json:"cluster"`
	Description      string    `json:"description"`
	SuccessPotential float64   `json:"successPotential"`
	JobRoles         []JobRole `json:"jobRoles"`
}

// SkillLevel is one bar of the skill graph.
type SkillLevel struct {
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

// CareerRecs is the 360° profile returned for a submitted assessment.
type CareerRecs struct {
	CareerClusters []CareerCluster `json:"careerClusters"`
	SkillGraph     []SkillLevel    `json:"skillGraph"`
	PersonalityMap string          `json:"personalityMap"`
	InterestCloud  []string        `json:"interestCloud"`
}

// Cluster finds a cluster by name.
func (r CareerRecs) Cluster(name string) (CareerCluster, bool) {
	for _, c := range r.CareerClusters {
		if c.Cluster == name {
			return c, true
		}
	}
	return CareerCluster{}, false
}

// Mentor is a suggested (fictional) mentor profile.
type Mentor struct {
	Name      string   `json:"name"`
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Expertise []string `json:"expertise"`
	Reason    string   `json:"reason"`
}

// CareerExplanation describes one career in depth.
type CareerExplanation struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	DayInTheLife  string   `json:"dayInTheLife"`
	CoreSkills    []string `json:"coreSkills"`
	FutureOutlook string   `json:"futureOutlook"`
}

// EmergingRole is a role unlocked by learning a new skill.
type EmergingRole struct {
	Role        string `json:"role"`
	Description string `json:"description"`
}

// ImpactSimulation is the projected effect of adding a skill.
type ImpactSimulation struct {
	Summary       string         `json:"summary"`
	EmergingRoles []EmergingRole `json:"emergingRoles"`
}
