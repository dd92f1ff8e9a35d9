package retrosheet

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

// ErrUnsupportedRecord is returned by Apply for tags outside the known set.
var ErrUnsupportedRecord = errors.New("unsupported record")

// FieldCountError reports a record with fewer fields than its handler reads.
type FieldCountError struct {
	Tag  string
	Want int
	Got  int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("%s record: want at least %d fields, got %d", e.Tag, e.Want, e.Got)
}

// GameHandler receives every finalized game.
type GameHandler func(*Game)

// AssemblerStats counts what the assembler did with its input.
type AssemblerStats struct {
	Games         int
	Applied       int
	Idle          int
	Unsupported   int
	Rejected      int
	Substitutions int
}

// Assembler folds event-file records into games. It holds at most one game
// in progress; when none is open the assembler is idle and every record but
// "id" is ignored.
//
// An Assembler is not safe for concurrent use.
type Assembler struct {
	handler GameHandler
	logger  *slog.Logger
	current *Game
	stats   AssemblerStats
}

// NewAssembler returns an idle assembler delivering games to handler.
func NewAssembler(handler GameHandler, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Assembler{handler: handler, logger: logger}
}

// Current returns the game under construction, nil when idle.
func (a *Assembler) Current() *Game {
	return a.current
}

// Stats returns counters accumulated since construction.
func (a *Assembler) Stats() AssemblerStats {
	return a.stats
}

// Flush finalizes the game in progress, if any, and returns to idle. Callers
// must flush at end of input or the last game is lost.
func (a *Assembler) Flush() {
	if a.current == nil {
		return
	}
	game := a.current
	a.current = nil
	a.stats.Games++
	a.logger.Debug("game finalized", "game_id", game.ID, "events", len(game.Events))
	if a.handler != nil {
		a.handler(game)
	}
}

// Apply feeds one record to the state machine. A non-nil error means the
// record was not applied; the state is unchanged except that a rejected id
// record still finalizes the previous game.
func (a *Assembler) Apply(rec Record) error {
	if rec.Type == RecordID {
		return a.applyID(rec)
	}
	if rec.Type == RecordUnknown {
		a.stats.Unsupported++
		a.logger.Warn("skipping unsupported record", "tag", rec.Tag, "fields", rec.Fields)
		return fmt.Errorf("%w: %q", ErrUnsupportedRecord, rec.Tag)
	}
	if a.current == nil {
		a.stats.Idle++
		a.logger.Debug("no game open, ignoring record", "tag", rec.Tag)
		return nil
	}

	var err error
	switch rec.Type {
	case RecordVersion:
		err = a.applyVersion(rec)
	case RecordInfo:
		err = a.applyInfo(rec)
	case RecordStart:
		err = a.applyStart(rec)
	case RecordSub:
		err = a.applySub(rec)
	case RecordPlay:
		err = a.applyPlay(rec)
	case RecordComment:
		err = a.applyComment(rec)
	case RecordBattingAdj:
		err = a.applyBattingAdj(rec)
	case RecordPitchingAdj:
		err = a.applyPitchingAdj(rec)
	case RecordLineupAdj:
		err = a.applyLineupAdj(rec)
	case RecordData:
		err = a.applyData(rec)
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupportedRecord, rec.Tag)
	}
	if err != nil {
		a.stats.Rejected++
		return err
	}
	a.stats.Applied++
	return nil
}

func requireFields(rec Record, want int) error {
	if len(rec.Fields) < want {
		return &FieldCountError{Tag: rec.Tag, Want: want, Got: len(rec.Fields)}
	}
	return nil
}

// id,SFN200904070
func (a *Assembler) applyID(rec Record) error {
	a.Flush()

	if err := requireFields(rec, 2); err != nil {
		a.stats.Rejected++
		return err
	}
	game, err := NewGame(rec.Fields[1])
	if err != nil {
		a.stats.Rejected++
		return err
	}
	a.current = game
	a.stats.Applied++
	return nil
}

// version,2
func (a *Assembler) applyVersion(rec Record) error {
	if err := requireFields(rec, 2); err != nil {
		return err
	}
	a.current.FormatVersion = rec.Fields[1]
	return nil
}

// info,site,SFO03
func (a *Assembler) applyInfo(rec Record) error {
	if err := requireFields(rec, 3); err != nil {
		return err
	}
	a.current.Info[rec.Fields[1]] = rec.Fields[2]
	return nil
}

// start,howar001,"Ryan Howard",0,4,3
func (a *Assembler) applyStart(rec Record) error {
	if err := requireFields(rec, 6); err != nil {
		return err
	}
	entry := LineupEntry{
		PlayerID:     rec.Fields[1],
		BattingOrder: rec.Fields[4],
		Position:     rec.Fields[5],
	}
	if rec.Fields[3] == "0" {
		a.current.StartingLineups.Home = append(a.current.StartingLineups.Home, entry)
	} else {
		a.current.StartingLineups.Away = append(a.current.StartingLineups.Away, entry)
	}
	return nil
}

// sub,ramim002,"Manny Ramirez",1,4,7
func (a *Assembler) applySub(rec Record) error {
	a.stats.Substitutions++
	a.logger.Debug("substitution", "game_id", a.current.ID, "fields", rec.Fields[1:])
	return nil
}

// play,6,1,bondb001,02,CFX,HR/9.3-H;2-H;1-H
func (a *Assembler) applyPlay(rec Record) error {
	if err := requireFields(rec, 7); err != nil {
		return err
	}
	inning, err := strconv.Atoi(rec.Fields[1])
	if err != nil {
		return fmt.Errorf("play record: parse inning %q: %w", rec.Fields[1], err)
	}

	half := HalfBottom
	if rec.Fields[2] == "0" {
		half = HalfTop
	}

	details := ParsePlay(rec.Fields[6])
	a.logger.Debug("play parsed", "raw", details.Raw, "code", details.Code,
		"modifier", details.Modifier, "advances", details.BasesAdvanced)

	a.current.Events = append(a.current.Events, &PlayEvent{
		Inning:        inning,
		Half:          half,
		PlayerID:      rec.Fields[3],
		CountOnBatter: ParseCount(rec.Fields[4]),
		PitchSequence: ParsePitches(rec.Fields[5]),
		Details:       details,
	})
	return nil
}

// com,"$Career homer 587"
func (a *Assembler) applyComment(rec Record) error {
	if err := requireFields(rec, 2); err != nil {
		return err
	}
	if c := a.current.lastComment(); c != nil {
		c.Lines = append(c.Lines, rec.Fields[1])
		return nil
	}
	a.current.Events = append(a.current.Events, &CommentEvent{Lines: []string{rec.Fields[1]}})
	return nil
}

// badj,everc001,L
func (a *Assembler) applyBattingAdj(rec Record) error {
	if err := requireFields(rec, 3); err != nil {
		return err
	}
	a.current.Events = append(a.current.Events, &BattingAdjustmentEvent{
		Player: rec.Fields[1],
		Hand:   rec.Fields[2],
	})
	return nil
}

// padj,harrg001,L
func (a *Assembler) applyPitchingAdj(rec Record) error {
	if err := requireFields(rec, 3); err != nil {
		return err
	}
	a.current.Events = append(a.current.Events, &PitchingAdjustmentEvent{
		Player: rec.Fields[1],
		Hand:   rec.Fields[2],
	})
	return nil
}

// ladj,0,9
func (a *Assembler) applyLineupAdj(rec Record) error {
	if err := requireFields(rec, 3); err != nil {
		return err
	}
	a.current.Events = append(a.current.Events, &LineupAdjustmentEvent{
		FirstField:  rec.Fields[1],
		SecondField: rec.Fields[2],
	})
	return nil
}

// data,er,fyhrm001,0
func (a *Assembler) applyData(rec Record) error {
	if err := requireFields(rec, 4); err != nil {
		return err
	}
	a.current.EarnedRunData = append(a.current.EarnedRunData, EarnedRun{
		PlayerID:   rec.Fields[2],
		EarnedRuns: rec.Fields[3],
	})
	return nil
}
