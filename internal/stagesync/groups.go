package stagesync

import (
	"fmt"
	"strings"

	"stage-entry-api/internal/entry"
)

// fieldGroup is one logical block of fields gated by a single "changed" flag
// on the target record. While the flag is false, every save of the source
// re-copies the group; once true the target's own values are authoritative.
type fieldGroup[S, T any] struct {
	Name    string
	Changed func(dst *T) bool
	Copy    func(src *S, dst *T) []string
}

// mapChaserDesignation translates the semifinals designation tokens into the
// finals vocabulary. Unknown tokens are never passed through.
func mapChaserDesignation(src string) (string, bool) {
	switch strings.TrimSpace(src) {
	case entry.ChaserIncluded:
		return entry.FinalsChaserInMusicData, true
	case entry.ChaserRequired:
		return entry.FinalsChaserRequested, true
	case entry.ChaserNotRequired:
		return entry.FinalsChaserNone, true
	}
	return "", false
}

// preliminaryToSemifinals: groups the semifinals record keeps tracking from
// the preliminary record while its change flags stay false.
var preliminaryToSemifinals = []fieldGroup[entry.PreliminaryInfo, entry.SemifinalsInfo]{
	{
		Name:    "music",
		Changed: func(dst *entry.SemifinalsInfo) bool { return dst.MusicChangeFromPreliminary },
		Copy: func(src *entry.PreliminaryInfo, dst *entry.SemifinalsInfo) []string {
			dst.WorkTitle = src.WorkTitle
			dst.MusicTitle = src.MusicTitle
			dst.MusicArtist = src.MusicArtist
			return nil
		},
	},
	{
		Name:    "choreographer",
		Changed: func(dst *entry.SemifinalsInfo) bool { return dst.ChoreographerChangeFromPreliminary },
		Copy: func(src *entry.PreliminaryInfo, dst *entry.SemifinalsInfo) []string {
			dst.ChoreographerName = src.ChoreographerName
			dst.ChoreographerFurigana = src.ChoreographerFurigana
			return nil
		},
	},
}

// semifinalsToFinals: the four groups of the finals record, including file
// paths; lighting copies every scene image.
var semifinalsToFinals = []fieldGroup[entry.SemifinalsInfo, entry.FinalsInfo]{
	{
		Name:    "music",
		Changed: func(dst *entry.FinalsInfo) bool { return dst.MusicChange },
		Copy: func(src *entry.SemifinalsInfo, dst *entry.FinalsInfo) []string {
			dst.WorkTitle = src.WorkTitle
			dst.MusicTitle = src.MusicTitle
			dst.MusicArtist = src.MusicArtist
			dst.MusicDataPath = src.MusicDataPath
			return nil
		},
	},
	{
		Name:    "choreographer",
		Changed: func(dst *entry.FinalsInfo) bool { return dst.ChoreographerChange },
		Copy: func(src *entry.SemifinalsInfo, dst *entry.FinalsInfo) []string {
			dst.ChoreographerName = src.ChoreographerName
			dst.ChoreographerFurigana = src.ChoreographerFurigana
			return nil
		},
	},
	{
		Name:    "sound",
		Changed: func(dst *entry.FinalsInfo) bool { return dst.SoundChangeFromSemifinals },
		Copy: func(src *entry.SemifinalsInfo, dst *entry.FinalsInfo) []string {
			dst.SoundStartTiming = src.SoundStartTiming
			dst.DanceStartTiming = src.DanceStartTiming
			dst.ChaserSongPath = src.ChaserSongPath

			mapped, ok := mapChaserDesignation(src.ChaserSongDesignation)
			dst.ChaserSongDesignation = mapped
			if !ok && strings.TrimSpace(src.ChaserSongDesignation) != "" {
				return []string{fmt.Sprintf("unknown chaser designation %q dropped during sync", src.ChaserSongDesignation)}
			}
			return nil
		},
	},
	{
		Name:    "lighting",
		Changed: func(dst *entry.FinalsInfo) bool { return dst.LightingChangeFromSemifinals },
		Copy: func(src *entry.SemifinalsInfo, dst *entry.FinalsInfo) []string {
			dst.Scene1 = src.Scene1
			dst.Scene2 = src.Scene2
			dst.Scene3 = src.Scene3
			dst.Scene4 = src.Scene4
			dst.Scene5 = src.Scene5
			dst.ChaserExit = src.ChaserExit
			return nil
		},
	},
}
