// internal/assessments/queries.go
package assessments

import "fmt"

// ListQuery names one of the history listings served by the store.
type ListQuery string

const (
	ListByIdea       ListQuery = "by_idea"
	ListByUser       ListQuery = "by_user"
	ListByScoreRange ListQuery = "by_score_range"
	ListByLevel      ListQuery = "by_level"
	ListUnlocked     ListQuery = "unlocked"
)

const assessmentColumns = `id, idea_id, user_id, session_id, result, recommendations, workshop_unlocked, unlocked_at, created_at`

type listDef struct {
	where   string
	orderBy string
	args    int
}

// listRegistry holds the filter and ordering of every listing. Filter
// arguments are bound to $1..$args and the limit follows them.
var listRegistry = map[ListQuery]listDef{
	ListByIdea:       {where: "idea_id = $1", orderBy: "created_at DESC", args: 1},
	ListByUser:       {where: "user_id = $1", orderBy: "created_at DESC", args: 1},
	ListByScoreRange: {where: "total_score >= $1 AND total_score <= $2", orderBy: "total_score DESC, created_at DESC", args: 2},
	ListByLevel:      {where: "level = $1", orderBy: "created_at DESC", args: 1},
	ListUnlocked:     {where: "workshop_unlocked = true", orderBy: "unlocked_at DESC", args: 0},
}

func buildListQuery(q ListQuery) (string, int, error) {
	def, ok := listRegistry[q]
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrUnknownListQuery, q)
	}
	query := fmt.Sprintf(
		"SELECT %s FROM maturity_assessments WHERE %s ORDER BY %s LIMIT $%d",
		assessmentColumns, def.where, def.orderBy, def.args+1,
	)
	return query, def.args, nil
}
