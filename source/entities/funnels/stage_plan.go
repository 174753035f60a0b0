package funnels

import "crm/source/schemas"

// StagePlan is the diff between a funnel's stored stages and a replacement list.
type StagePlan struct {
	Keep   []schemas.FunnelStage
	Insert []schemas.FunnelStage
	Remove []int64
	// order holds every incoming stage in its final position; entries point
	// into Keep or Insert so inserted ids become visible once assigned.
	order []*schemas.FunnelStage
}

// PlanStages matches incoming stages to the stored ones by id. Unknown or
// repeated ids are treated as new stages. Positions are renumbered 1..n.
func PlanStages(currentIDs []int64, incoming []schemas.FunnelStage) StagePlan {
	current := make(map[int64]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}

	plan := StagePlan{}
	kept := map[int64]bool{}
	isKeep := make([]bool, len(incoming))

	for i, stage := range incoming {
		stage.Position = i + 1
		stage.Color = stageColor(stage.Color)
		if stage.ID != 0 && current[stage.ID] && !kept[stage.ID] {
			kept[stage.ID] = true
			isKeep[i] = true
			plan.Keep = append(plan.Keep, stage)
			continue
		}
		stage.ID = 0
		plan.Insert = append(plan.Insert, stage)
	}

	for _, id := range currentIDs {
		if !kept[id] {
			plan.Remove = append(plan.Remove, id)
		}
	}

	k, n := 0, 0
	for i := range incoming {
		if isKeep[i] {
			plan.order = append(plan.order, &plan.Keep[k])
			k++
		} else {
			plan.order = append(plan.order, &plan.Insert[n])
			n++
		}
	}

	return plan
}

// FirstStageID is the id of the stage at position 1 after the plan is applied.
func (p StagePlan) FirstStageID() int64 {
	if len(p.order) == 0 {
		return 0
	}
	return p.order[0].ID
}
