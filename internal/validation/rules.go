package validation

import (
	"strings"
	"time"

	"stage-entry-api/internal/entry"
)

// rule is one required-field check. Missing reports whether the field should
// be counted missing for this record; conditional requirements live inside
// the predicate so the rule set stays flat data.
type rule[T any] struct {
	Field   string
	Missing func(rec T, aux AuxFacts) bool
}

// missingFields walks a rule table in order; the order of the table is the
// order of the result.
func missingFields[T any](rec T, rules []rule[T], aux AuxFacts) []string {
	var missing []string
	for _, r := range rules {
		if r.Missing(rec, aux) {
			missing = append(missing, r.Field)
		}
	}
	return missing
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// guardianRequired reports whether a person with the given birthdate still
// needs guardian consent at the evaluation instant. Someone turning 18 on
// that very day still requires it. Blank or unparseable birthdates do not
// trigger the guardian rules; the birthdate field carries its own rule.
func guardianRequired(birthdate string, now time.Time) bool {
	b, err := time.Parse("2006-01-02", strings.TrimSpace(birthdate))
	if err != nil {
		return false
	}
	eighteenth := b.AddDate(18, 0, 0)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !today.After(eighteenth)
}

var basicInfoRules = []rule[*entry.BasicInfo]{
	{"team_name", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.TeamName) }},
	{"genre", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.Genre) }},
	{"prefecture", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.Prefecture) }},
	{"representative_name", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.RepresentativeName) }},
	{"representative_kana", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.RepresentativeKana) }},
	{"representative_birthdate", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.RepresentativeBirthdate) }},
	{"representative_phone", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.RepresentativePhone) }},
	{"representative_email", func(r *entry.BasicInfo, _ AuxFacts) bool { return blank(r.RepresentativeEmail) }},
	{"guardian_name", func(r *entry.BasicInfo, aux AuxFacts) bool {
		return guardianRequired(r.RepresentativeBirthdate, aux.Now) && blank(r.GuardianName)
	}},
	{"guardian_phone", func(r *entry.BasicInfo, aux AuxFacts) bool {
		return guardianRequired(r.RepresentativeBirthdate, aux.Now) && blank(r.GuardianPhone)
	}},
	{"guardian_email", func(r *entry.BasicInfo, aux AuxFacts) bool {
		return guardianRequired(r.RepresentativeBirthdate, aux.Now) && blank(r.GuardianEmail)
	}},
	{"partner_name", func(r *entry.BasicInfo, _ AuxFacts) bool { return r.HasPartner && blank(r.PartnerName) }},
	{"partner_kana", func(r *entry.BasicInfo, _ AuxFacts) bool { return r.HasPartner && blank(r.PartnerKana) }},
	{"partner_birthdate", func(r *entry.BasicInfo, _ AuxFacts) bool { return r.HasPartner && blank(r.PartnerBirthdate) }},
	{"partner_guardian_name", func(r *entry.BasicInfo, aux AuxFacts) bool {
		return r.HasPartner && guardianRequired(r.PartnerBirthdate, aux.Now) && blank(r.PartnerGuardianName)
	}},
	{"partner_guardian_phone", func(r *entry.BasicInfo, aux AuxFacts) bool {
		return r.HasPartner && guardianRequired(r.PartnerBirthdate, aux.Now) && blank(r.PartnerGuardianPhone)
	}},
	{"partner_guardian_email", func(r *entry.BasicInfo, aux AuxFacts) bool {
		return r.HasPartner && guardianRequired(r.PartnerBirthdate, aux.Now) && blank(r.PartnerGuardianEmail)
	}},
}

var preliminaryRules = []rule[*entry.PreliminaryInfo]{
	{"work_title", func(r *entry.PreliminaryInfo, _ AuxFacts) bool { return blank(r.WorkTitle) }},
	{"music_title", func(r *entry.PreliminaryInfo, _ AuxFacts) bool { return blank(r.MusicTitle) }},
	{"music_artist", func(r *entry.PreliminaryInfo, _ AuxFacts) bool { return blank(r.MusicArtist) }},
	{"choreographer_name", func(r *entry.PreliminaryInfo, _ AuxFacts) bool { return blank(r.ChoreographerName) }},
	{"choreographer_furigana", func(r *entry.PreliminaryInfo, _ AuxFacts) bool { return blank(r.ChoreographerFurigana) }},
	{"preliminary_video", func(_ *entry.PreliminaryInfo, aux AuxFacts) bool { return !aux.HasPreliminaryVideo }},
}

var programRules = []rule[*entry.ProgramInfo]{
	{"song_count", func(r *entry.ProgramInfo, _ AuxFacts) bool { return blank(r.SongCount) }},
	{"program_title", func(r *entry.ProgramInfo, _ AuxFacts) bool { return blank(r.ProgramTitle) }},
	{"introduction", func(r *entry.ProgramInfo, _ AuxFacts) bool { return blank(r.Introduction) }},
	{"final_story", func(r *entry.ProgramInfo, _ AuxFacts) bool {
		return strings.TrimSpace(r.SongCount) == "2" && blank(r.FinalStory)
	}},
}

var semifinalsChaserTokens = map[string]bool{
	entry.ChaserIncluded:    true,
	entry.ChaserRequired:    true,
	entry.ChaserNotRequired: true,
}

var finalsChaserTokens = map[string]bool{
	entry.FinalsChaserInMusicData: true,
	entry.FinalsChaserRequested:   true,
	entry.FinalsChaserNone:        true,
}

// sceneRules appends the checks for one lighting scene. A free-color scene
// must also name the color.
func sceneRules[T any](prefix string, scene func(T) entry.LightScene) []rule[T] {
	return []rule[T]{
		{prefix + "_time", func(r T, _ AuxFacts) bool { return blank(scene(r).Time) }},
		{prefix + "_trigger", func(r T, _ AuxFacts) bool { return blank(scene(r).Trigger) }},
		{prefix + "_color_type", func(r T, _ AuxFacts) bool { return blank(scene(r).ColorType) }},
		{prefix + "_color_other", func(r T, _ AuxFacts) bool {
			return strings.TrimSpace(scene(r).ColorType) == "other" && blank(scene(r).ColorOther)
		}},
		{prefix + "_image", func(r T, _ AuxFacts) bool { return blank(scene(r).ImagePath) }},
	}
}

// chaserExitRules: the exit block has no image requirement.
func chaserExitRules[T any](scene func(T) entry.LightScene) []rule[T] {
	return []rule[T]{
		{"chaser_exit_time", func(r T, _ AuxFacts) bool { return blank(scene(r).Time) }},
		{"chaser_exit_trigger", func(r T, _ AuxFacts) bool { return blank(scene(r).Trigger) }},
		{"chaser_exit_color_type", func(r T, _ AuxFacts) bool { return blank(scene(r).ColorType) }},
		{"chaser_exit_color_other", func(r T, _ AuxFacts) bool {
			return strings.TrimSpace(scene(r).ColorType) == "other" && blank(scene(r).ColorOther)
		}},
	}
}

var semifinalsRules = buildSemifinalsRules()

func buildSemifinalsRules() []rule[*entry.SemifinalsInfo] {
	rules := []rule[*entry.SemifinalsInfo]{
		{"work_title", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.WorkTitle) }},
		{"music_title", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.MusicTitle) }},
		{"music_artist", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.MusicArtist) }},
		{"music_data_path", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.MusicDataPath) }},
		{"choreographer_name", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.ChoreographerName) }},
		{"choreographer_furigana", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.ChoreographerFurigana) }},
		{"sound_start_timing", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.SoundStartTiming) }},
		{"dance_start_timing", func(r *entry.SemifinalsInfo, _ AuxFacts) bool { return blank(r.DanceStartTiming) }},
		{"chaser_song_designation", func(r *entry.SemifinalsInfo, _ AuxFacts) bool {
			return !semifinalsChaserTokens[strings.TrimSpace(r.ChaserSongDesignation)]
		}},
		{"chaser_song_path", func(r *entry.SemifinalsInfo, _ AuxFacts) bool {
			return strings.TrimSpace(r.ChaserSongDesignation) == entry.ChaserRequired && blank(r.ChaserSongPath)
		}},
	}
	rules = append(rules, sceneRules("scene1", func(r *entry.SemifinalsInfo) entry.LightScene { return r.Scene1 })...)
	rules = append(rules, sceneRules("scene2", func(r *entry.SemifinalsInfo) entry.LightScene { return r.Scene2 })...)
	rules = append(rules, sceneRules("scene3", func(r *entry.SemifinalsInfo) entry.LightScene { return r.Scene3 })...)
	rules = append(rules, sceneRules("scene4", func(r *entry.SemifinalsInfo) entry.LightScene { return r.Scene4 })...)
	rules = append(rules, sceneRules("scene5", func(r *entry.SemifinalsInfo) entry.LightScene { return r.Scene5 })...)
	rules = append(rules, chaserExitRules(func(r *entry.SemifinalsInfo) entry.LightScene { return r.ChaserExit })...)
	return rules
}

var finalsRules = buildFinalsRules()

func buildFinalsRules() []rule[*entry.FinalsInfo] {
	rules := []rule[*entry.FinalsInfo]{
		{"work_title", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.WorkTitle) }},
		{"music_title", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.MusicTitle) }},
		{"music_artist", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.MusicArtist) }},
		{"music_data_path", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.MusicDataPath) }},
		{"choreographer_name", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.ChoreographerName) }},
		{"choreographer_furigana", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.ChoreographerFurigana) }},
		{"sound_start_timing", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.SoundStartTiming) }},
		{"dance_start_timing", func(r *entry.FinalsInfo, _ AuxFacts) bool { return blank(r.DanceStartTiming) }},
		{"chaser_song_designation", func(r *entry.FinalsInfo, _ AuxFacts) bool {
			return !finalsChaserTokens[strings.TrimSpace(r.ChaserSongDesignation)]
		}},
		{"chaser_song_path", func(r *entry.FinalsInfo, _ AuxFacts) bool {
			return strings.TrimSpace(r.ChaserSongDesignation) == entry.FinalsChaserRequested && blank(r.ChaserSongPath)
		}},
	}
	rules = append(rules, sceneRules("scene1", func(r *entry.FinalsInfo) entry.LightScene { return r.Scene1 })...)
	rules = append(rules, sceneRules("scene2", func(r *entry.FinalsInfo) entry.LightScene { return r.Scene2 })...)
	rules = append(rules, sceneRules("scene3", func(r *entry.FinalsInfo) entry.LightScene { return r.Scene3 })...)
	rules = append(rules, sceneRules("scene4", func(r *entry.FinalsInfo) entry.LightScene { return r.Scene4 })...)
	rules = append(rules, sceneRules("scene5", func(r *entry.FinalsInfo) entry.LightScene { return r.Scene5 })...)
	rules = append(rules, chaserExitRules(func(r *entry.FinalsInfo) entry.LightScene { return r.ChaserExit })...)
	return rules
}

var snsRules = []rule[*entry.SnsInfo]{
	{"instagram_handle", func(r *entry.SnsInfo, _ AuxFacts) bool { return blank(r.InstagramHandle) }},
	{"posting_consent", func(r *entry.SnsInfo, _ AuxFacts) bool { return !r.PostingConsent }},
	{"practice_video", func(_ *entry.SnsInfo, aux AuxFacts) bool { return !aux.HasPracticeVideo }},
}

var applicationsRules = []rule[*entry.ApplicationsInfo]{
	{"ticket_count", func(r *entry.ApplicationsInfo, _ AuxFacts) bool { return blank(r.TicketCount) }},
	{"terms_consent", func(r *entry.ApplicationsInfo, _ AuxFacts) bool { return !r.TermsConsent }},
	{"photo_consent", func(r *entry.ApplicationsInfo, _ AuxFacts) bool { return !r.PhotoConsent }},
	{"payment_slip", func(_ *entry.ApplicationsInfo, aux AuxFacts) bool { return !aux.HasPaymentSlip }},
}
