package rules

import (
	"encoding/json"
	"math"
	"sort"
)

// Risk levels for budget tracking.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// RoomCostCandidate is a room's budget position plus task pressure.
type RoomCostCandidate struct {
	RoomID           string
	RoomName         string
	Planned          float64
	Actual           float64
	OpenTaskCount    int
	OverdueTaskCount int
}

// RoomCostRisk is the assessed budget risk for one room.
type RoomCostRisk struct {
	RoomID      string
	RoomName    string
	Planned     float64
	Actual      float64
	Variance    float64
	Utilization *float64
	Risk        string
	Reasons     []string
}

// CostInsightSummary is the project-level budget assessment.
type CostInsightSummary struct {
	ProjectPlanned  float64
	ProjectActual   float64
	ProjectVariance float64
	ProjectRisk     string
	Reasons         []string
	RoomRisks       []RoomCostRisk
}

// InsightCache memoizes the last BuildCostInsights result. The cache is
// owned by the caller and passed in explicitly; there is no package
// state.
type InsightCache struct {
	key   string
	value *CostInsightSummary
}

// RiskToTrafficLabel maps a risk level to the traffic-light label shown
// to the user.
func RiskToTrafficLabel(risk string) string {
	switch risk {
	case RiskHigh:
		return "Red"
	case RiskMedium:
		return "Amber"
	default:
		return "Green"
	}
}

func roundUtilization(value float64) float64 {
	return math.Round(value*100) / 100
}

func assessRoomRisk(input RoomCostCandidate) RoomCostRisk {
	planned := input.Planned
	actual := input.Actual
	variance := planned - actual
	var utilization *float64
	if planned > 0 {
		u := actual / planned
		utilization = &u
	}

	var reasons []string
	risk := RiskLow

	switch {
	case planned <= 0 && actual > 0:
		risk = RiskHigh
		reasons = append(reasons, "Spending recorded without a room budget baseline")
	case variance < 0:
		risk = RiskHigh
		reasons = append(reasons, "Already over budget")
	case utilization != nil && *utilization >= 0.9 && input.OpenTaskCount > 0:
		risk = RiskHigh
		reasons = append(reasons, "Above 90% of budget with open tasks remaining")
	case utilization != nil && *utilization >= 0.75:
		risk = RiskMedium
		reasons = append(reasons, "Above 75% of budget")
	}

	if input.OverdueTaskCount > 0 {
		reasons = append(reasons, "Overdue tasks may create rush-cost pressure")
		if risk == RiskLow {
			risk = RiskMedium
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Spending level is currently within expected range")
	}

	if utilization != nil {
		rounded := roundUtilization(*utilization)
		utilization = &rounded
	}

	return RoomCostRisk{
		RoomID:      input.RoomID,
		RoomName:    input.RoomName,
		Planned:     planned,
		Actual:      actual,
		Variance:    variance,
		Utilization: utilization,
		Risk:        risk,
		Reasons:     reasons,
	}
}

func riskRank(risk string) int {
	switch risk {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	default:
		return 1
	}
}

type insightCacheKey struct {
	ProjectPlanned float64             `json:"projectPlanned"`
	ProjectActual  float64             `json:"projectActual"`
	MaxRooms       int                 `json:"maxRooms"`
	Rooms          []RoomCostCandidate `json:"rooms"`
}

// BuildCostInsights assesses every room and rolls project risk up from
// the room risks. Identical consecutive inputs hit the cache.
func BuildCostInsights(cache *InsightCache, projectPlanned, projectActual float64, rooms []RoomCostCandidate, maxRooms int) *CostInsightSummary {
	keyBytes, err := json.Marshal(insightCacheKey{
		ProjectPlanned: projectPlanned,
		ProjectActual:  projectActual,
		MaxRooms:       maxRooms,
		Rooms:          rooms,
	})
	key := ""
	if err == nil {
		key = string(keyBytes)
	}

	if cache != nil && key != "" && cache.key == key && cache.value != nil {
		return cache.value
	}

	roomRisks := make([]RoomCostRisk, len(rooms))
	for i, room := range rooms {
		roomRisks[i] = assessRoomRisk(room)
	}
	sort.SliceStable(roomRisks, func(i, j int) bool {
		if d := riskRank(roomRisks[i].Risk) - riskRank(roomRisks[j].Risk); d != 0 {
			return d > 0
		}
		return roomRisks[i].Actual-roomRisks[i].Planned > roomRisks[j].Actual-roomRisks[j].Planned
	})

	projectVariance := projectPlanned - projectActual
	var reasons []string
	projectRisk := RiskLow

	if projectVariance < 0 {
		projectRisk = RiskHigh
		reasons = append(reasons, "Project is over budget")
	} else if projectPlanned > 0 && projectActual/projectPlanned >= 0.85 {
		projectRisk = RiskMedium
		reasons = append(reasons, "Project has consumed over 85% of planned budget")
	}

	anyHigh, anyMedium := false, false
	for _, room := range roomRisks {
		if room.Risk == RiskHigh {
			anyHigh = true
		}
		if room.Risk == RiskMedium {
			anyMedium = true
		}
	}
	if anyHigh {
		projectRisk = RiskHigh
		reasons = append(reasons, "At least one room is high risk for overrun")
	} else if projectRisk == RiskLow && anyMedium {
		projectRisk = RiskMedium
		reasons = append(reasons, "Some rooms are trending toward budget pressure")
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Spend trend is stable against current plan")
	}

	if len(roomRisks) > maxRooms {
		roomRisks = roomRisks[:maxRooms]
	}

	summary := &CostInsightSummary{
		ProjectPlanned:  projectPlanned,
		ProjectActual:   projectActual,
		ProjectVariance: projectVariance,
		ProjectRisk:     projectRisk,
		Reasons:         reasons,
		RoomRisks:       roomRisks,
	}

	if cache != nil && key != "" {
		cache.key = key
		cache.value = summary
	}
	return summary
}
