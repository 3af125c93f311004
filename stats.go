package worddiff

import (
	"fmt"
	"io"
)

// Statistics counts the words of a comparison. Changed words are those
// replaced by other words, deleted and added words are those without
// counterpart.
type Statistics struct {
	OldWords, NewWords     int
	Deleted, Added         int
	OldChanged, NewChanged int
}

func (s Statistics) OldCommon() int { return s.OldWords - s.Deleted - s.OldChanged }

func (s Statistics) NewCommon() int { return s.NewWords - s.Added - s.NewChanged }

// WriteTo writes the two summary lines of the statistics.
func (s Statistics) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w,
		"old: %d words  %d %d%% common  %d %d%% deleted  %d %d%% changed\n",
		s.OldWords,
		s.OldCommon(), percent(s.OldCommon(), s.OldWords),
		s.Deleted, percent(s.Deleted, s.OldWords),
		s.OldChanged, percent(s.OldChanged, s.OldWords),
	)
	if err != nil {
		return int64(n), err
	}
	m, err := fmt.Fprintf(w,
		"new: %d words  %d %d%% common  %d %d%% inserted  %d %d%% changed\n",
		s.NewWords,
		s.NewCommon(), percent(s.NewCommon(), s.NewWords),
		s.Added, percent(s.Added, s.NewWords),
		s.NewChanged, percent(s.NewChanged, s.NewWords),
	)
	return int64(n + m), err
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
