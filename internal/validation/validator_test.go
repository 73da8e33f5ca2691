package validation

import (
	"reflect"
	"testing"
	"time"

	"stage-entry-api/internal/entry"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func adultBasicInfo() *entry.BasicInfo {
	return &entry.BasicInfo{
		TeamName:                "Team Aurora",
		Genre:                   "hiphop",
		Prefecture:              "Tokyo",
		RepresentativeName:      "Hanako Yamada",
		RepresentativeKana:      "ヤマダ ハナコ",
		RepresentativeBirthdate: "1999-04-01",
		RepresentativePhone:     "090-0000-0000",
		RepresentativeEmail:     "hanako@example.com",
	}
}

func completeScene() entry.LightScene {
	return entry.LightScene{
		Time:      "0:30",
		Trigger:   "music cue",
		ColorType: "warm",
		ImagePath: "entries/1/scene.jpg",
	}
}

func completeSemifinals() *entry.SemifinalsInfo {
	s := &entry.SemifinalsInfo{
		WorkTitle:             "Midnight Run",
		MusicTitle:            "Night Drive",
		MusicArtist:           "DJ Sora",
		MusicDataPath:         "entries/1/semi.mp3",
		ChoreographerName:     "Taro Sato",
		ChoreographerFurigana: "サトウ タロウ",
		SoundStartTiming:      "on entry",
		DanceStartTiming:      "after intro",
		ChaserSongDesignation: entry.ChaserNotRequired,
	}
	s.Scene1 = completeScene()
	s.Scene2 = completeScene()
	s.Scene3 = completeScene()
	s.Scene4 = completeScene()
	s.Scene5 = completeScene()
	s.ChaserExit = entry.LightScene{Time: "end", Trigger: "last beat", ColorType: "white"}
	return s
}

func TestValidateBasicInfoComplete(t *testing.T) {
	missing := ValidateBasicInfo(adultBasicInfo(), AuxFacts{Now: testNow})
	if len(missing) != 0 {
		t.Fatalf("expected no missing fields, got %v", missing)
	}
}

func TestValidateBasicInfoMinorRequiresGuardian(t *testing.T) {
	rec := adultBasicInfo()
	rec.RepresentativeBirthdate = "2009-01-10" // 17 at testNow
	missing := ValidateBasicInfo(rec, AuxFacts{Now: testNow})

	want := []string{"guardian_name", "guardian_phone", "guardian_email"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
}

func TestGuardianBoundaryAtEighteenthBirthday(t *testing.T) {
	rec := adultBasicInfo()

	// 18th birthday is exactly today: still requires a guardian.
	rec.RepresentativeBirthdate = "2008-06-15"
	if missing := ValidateBasicInfo(rec, AuxFacts{Now: testNow}); len(missing) == 0 {
		t.Fatalf("expected guardian fields required on 18th birthday")
	}

	// Turned 18 yesterday: no guardian needed.
	rec.RepresentativeBirthdate = "2008-06-14"
	if missing := ValidateBasicInfo(rec, AuxFacts{Now: testNow}); len(missing) != 0 {
		t.Fatalf("expected no missing fields the day after turning 18, got %v", missing)
	}
}

func TestValidateBasicInfoPartnerRules(t *testing.T) {
	rec := adultBasicInfo()
	rec.HasPartner = true
	missing := ValidateBasicInfo(rec, AuxFacts{Now: testNow})
	want := []string{"partner_name", "partner_kana", "partner_birthdate"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}

	rec.PartnerName = "Jiro Suzuki"
	rec.PartnerKana = "スズキ ジロウ"
	rec.PartnerBirthdate = "2010-03-03" // minor partner
	missing = ValidateBasicInfo(rec, AuxFacts{Now: testNow})
	want = []string{"partner_guardian_name", "partner_guardian_phone", "partner_guardian_email"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
}

func TestValidatePreliminaryNeedsVideo(t *testing.T) {
	rec := &entry.PreliminaryInfo{
		WorkTitle:             "w",
		MusicTitle:            "m",
		MusicArtist:           "a",
		ChoreographerName:     "c",
		ChoreographerFurigana: "f",
	}
	missing := ValidatePreliminary(rec, AuxFacts{Now: testNow})
	if !reflect.DeepEqual(missing, []string{"preliminary_video"}) {
		t.Fatalf("expected only preliminary_video, got %v", missing)
	}

	missing = ValidatePreliminary(rec, AuxFacts{Now: testNow, HasPreliminaryVideo: true})
	if len(missing) != 0 {
		t.Fatalf("expected no missing fields with video uploaded, got %v", missing)
	}
}

func TestValidateProgramFinalStoryConditional(t *testing.T) {
	rec := &entry.ProgramInfo{SongCount: "1", ProgramTitle: "p", Introduction: "i"}
	if missing := ValidateProgram(rec, AuxFacts{}); len(missing) != 0 {
		t.Fatalf("one-song program should not need final_story, got %v", missing)
	}

	rec.SongCount = "2"
	missing := ValidateProgram(rec, AuxFacts{})
	if !reflect.DeepEqual(missing, []string{"final_story"}) {
		t.Fatalf("expected final_story missing for two songs, got %v", missing)
	}
}

func TestValidateSemifinalsChaserRules(t *testing.T) {
	rec := completeSemifinals()
	if missing := ValidateSemifinals(rec, AuxFacts{}); len(missing) != 0 {
		t.Fatalf("expected complete record, got %v", missing)
	}

	rec.ChaserSongDesignation = entry.ChaserRequired
	missing := ValidateSemifinals(rec, AuxFacts{})
	if !reflect.DeepEqual(missing, []string{"chaser_song_path"}) {
		t.Fatalf("expected chaser_song_path missing, got %v", missing)
	}
	rec.ChaserSongPath = "entries/1/chaser.mp3"
	if missing := ValidateSemifinals(rec, AuxFacts{}); len(missing) != 0 {
		t.Fatalf("expected complete record with chaser path, got %v", missing)
	}

	// Unknown designation tokens never pass silently.
	rec.ChaserSongDesignation = "maybe"
	missing = ValidateSemifinals(rec, AuxFacts{})
	if !reflect.DeepEqual(missing, []string{"chaser_song_designation"}) {
		t.Fatalf("expected invalid designation flagged, got %v", missing)
	}
}

func TestValidateSemifinalsSceneColorOther(t *testing.T) {
	rec := completeSemifinals()
	rec.Scene3.ColorType = "other"
	missing := ValidateSemifinals(rec, AuxFacts{})
	if !reflect.DeepEqual(missing, []string{"scene3_color_other"}) {
		t.Fatalf("expected scene3_color_other, got %v", missing)
	}
}

func TestValidateSnsAndApplications(t *testing.T) {
	sns := &entry.SnsInfo{InstagramHandle: "@team", PostingConsent: false}
	missing := ValidateSns(sns, AuxFacts{HasPracticeVideo: true})
	if !reflect.DeepEqual(missing, []string{"posting_consent"}) {
		t.Fatalf("expected posting_consent, got %v", missing)
	}

	app := &entry.ApplicationsInfo{TicketCount: "3", TermsConsent: true, PhotoConsent: true}
	missing = ValidateApplications(app, AuxFacts{})
	if !reflect.DeepEqual(missing, []string{"payment_slip"}) {
		t.Fatalf("expected payment_slip, got %v", missing)
	}
	if missing := ValidateApplications(app, AuxFacts{HasPaymentSlip: true}); len(missing) != 0 {
		t.Fatalf("expected complete applications, got %v", missing)
	}
}

func TestMissingListOrderIsDeterministic(t *testing.T) {
	rec := &entry.BasicInfo{}
	first := ValidateBasicInfo(rec, AuxFacts{Now: testNow})
	second := ValidateBasicInfo(rec, AuxFacts{Now: testNow})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("missing list not deterministic: %v vs %v", first, second)
	}
	if first[0] != "team_name" || first[len(first)-1] != "representative_email" {
		t.Fatalf("unexpected rule order: %v", first)
	}
}

func TestEvaluateEmptyEntry(t *testing.T) {
	snapshot := Evaluate(entry.StageRecords{}, AuxFacts{Now: testNow})
	if len(snapshot) != len(entry.AllStages) {
		t.Fatalf("expected all stages in snapshot, got %d", len(snapshot))
	}
	for stage, c := range snapshot {
		if c.Exists || c.Complete {
			t.Fatalf("stage %s should be {false,false}, got %+v", stage, c)
		}
	}
}

func TestEvaluateCompleteStage(t *testing.T) {
	rs := entry.StageRecords{BasicInfo: adultBasicInfo()}
	snapshot := Evaluate(rs, AuxFacts{Now: testNow})
	if c := snapshot[entry.StageBasicInfo]; !c.Exists || !c.Complete {
		t.Fatalf("expected basic_info {true,true}, got %+v", c)
	}
	if c := snapshot[entry.StageFinals]; c.Exists || c.Complete {
		t.Fatalf("expected finals {false,false}, got %+v", c)
	}
}

func TestStageStatuses(t *testing.T) {
	rs := entry.StageRecords{
		BasicInfo:   adultBasicInfo(),
		Preliminary: &entry.PreliminaryInfo{WorkTitle: "w"},
	}
	statuses := StageStatuses(rs, AuxFacts{Now: testNow})
	if statuses[entry.StageBasicInfo] != entry.StageStatusComplete {
		t.Fatalf("expected complete, got %q", statuses[entry.StageBasicInfo])
	}
	if statuses[entry.StagePreliminary] != entry.StageStatusIncomplete {
		t.Fatalf("expected incomplete, got %q", statuses[entry.StagePreliminary])
	}
	if statuses[entry.StageProgram] != entry.StageStatusNone {
		t.Fatalf("expected none, got %q", statuses[entry.StageProgram])
	}
}
