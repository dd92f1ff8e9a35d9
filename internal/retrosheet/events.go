package retrosheet

import "encoding/json"

// EventType discriminates events in stored documents.
type EventType string

const (
	EventPlay               EventType = "play"
	EventComment            EventType = "comment"
	EventBattingAdjustment  EventType = "battingAdjustment"
	EventPitchingAdjustment EventType = "pitchingAdjustment"
	EventLineupAdjustment   EventType = "lineupAdjustment"
)

// Event is one chronological entry of a game. The set of implementations is
// closed to this package.
type Event interface {
	Type() EventType
	isEvent()
}

// Half is the half of an inning.
type Half string

const (
	HalfTop    Half = "top"
	HalfBottom Half = "bottom"
)

// PlayEvent is a "play" record.
type PlayEvent struct {
	Inning        int         `json:"inning"`
	Half          Half        `json:"half"`
	PlayerID      string      `json:"playerId"`
	CountOnBatter *Count      `json:"countOnBatter,omitempty"`
	PitchSequence []string    `json:"pitchSequence"`
	Details       PlayDetails `json:"details"`
}

// CommentEvent collects one or more consecutive "com" records.
type CommentEvent struct {
	Lines []string `json:"lines"`
}

// BattingAdjustmentEvent is a "badj" record: a batter hitting from the
// unexpected side.
type BattingAdjustmentEvent struct {
	Player string `json:"player"`
	Hand   string `json:"hand"`
}

// PitchingAdjustmentEvent is a "padj" record.
type PitchingAdjustmentEvent struct {
	Player string `json:"player"`
	Hand   string `json:"hand"`
}

// LineupAdjustmentEvent is a "ladj" record. The two fields are kept as
// published.
type LineupAdjustmentEvent struct {
	FirstField  string `json:"firstField"`
	SecondField string `json:"secondField"`
}

func (*PlayEvent) Type() EventType               { return EventPlay }
func (*CommentEvent) Type() EventType            { return EventComment }
func (*BattingAdjustmentEvent) Type() EventType  { return EventBattingAdjustment }
func (*PitchingAdjustmentEvent) Type() EventType { return EventPitchingAdjustment }
func (*LineupAdjustmentEvent) Type() EventType   { return EventLineupAdjustment }

func (*PlayEvent) isEvent()               {}
func (*CommentEvent) isEvent()            {}
func (*BattingAdjustmentEvent) isEvent()  {}
func (*PitchingAdjustmentEvent) isEvent() {}
func (*LineupAdjustmentEvent) isEvent()   {}

func (e *PlayEvent) MarshalJSON() ([]byte, error) {
	type plain PlayEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		plain
	}{EventPlay, plain(*e)})
}

func (e *CommentEvent) MarshalJSON() ([]byte, error) {
	type plain CommentEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		plain
	}{EventComment, plain(*e)})
}

func (e *BattingAdjustmentEvent) MarshalJSON() ([]byte, error) {
	type plain BattingAdjustmentEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		plain
	}{EventBattingAdjustment, plain(*e)})
}

func (e *PitchingAdjustmentEvent) MarshalJSON() ([]byte, error) {
	type plain PitchingAdjustmentEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		plain
	}{EventPitchingAdjustment, plain(*e)})
}

func (e *LineupAdjustmentEvent) MarshalJSON() ([]byte, error) {
	type plain LineupAdjustmentEvent
	return json.Marshal(struct {
		Type EventType `json:"type"`
		plain
	}{EventLineupAdjustment, plain(*e)})
}
