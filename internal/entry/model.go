package entry

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Stage identifies one step of the submission flow.
type Stage string

const (
	StageBasicInfo    Stage = "basic_info"
	StagePreliminary  Stage = "preliminary"
	StageProgram      Stage = "program"
	StageSemifinals   Stage = "semifinals"
	StageFinals       Stage = "finals"
	StageSns          Stage = "sns"
	StageApplications Stage = "applications"
)

// AllStages in submission order; this order also drives dashboards and exports.
var AllStages = []Stage{
	StageBasicInfo,
	StagePreliminary,
	StageProgram,
	StageSemifinals,
	StageFinals,
	StageSns,
	StageApplications,
}

// Coarse entry lifecycle, mutated only by admins.
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusSelected  = "selected"
	StatusRejected  = "rejected"
)

var ValidStatuses = map[string]bool{
	StatusPending:   true,
	StatusSubmitted: true,
	StatusSelected:  true,
	StatusRejected:  true,
}

// Cached per-stage completion markers stored on the entry row.
const (
	StageStatusNone       = "none"
	StageStatusIncomplete = "incomplete"
	StageStatusComplete   = "complete"
)

type Entry struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	BasicInfoStatus    string `gorm:"size:20;default:'none'" json:"basic_info_status"`
	PreliminaryStatus  string `gorm:"size:20;default:'none'" json:"preliminary_status"`
	ProgramStatus      string `gorm:"size:20;default:'none'" json:"program_status"`
	SemifinalsStatus   string `gorm:"size:20;default:'none'" json:"semifinals_status"`
	FinalsStatus       string `gorm:"size:20;default:'none'" json:"finals_status"`
	SnsStatus          string `gorm:"size:20;default:'none'" json:"sns_status"`
	ApplicationsStatus string `gorm:"size:20;default:'none'" json:"applications_status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Entry) TableName() string { return "entries" }

// StageStatus returns the cached completion marker for one stage.
func (e *Entry) StageStatus(stage Stage) string {
	switch stage {
	case StageBasicInfo:
		return e.BasicInfoStatus
	case StagePreliminary:
		return e.PreliminaryStatus
	case StageProgram:
		return e.ProgramStatus
	case StageSemifinals:
		return e.SemifinalsStatus
	case StageFinals:
		return e.FinalsStatus
	case StageSns:
		return e.SnsStatus
	case StageApplications:
		return e.ApplicationsStatus
	}
	return StageStatusNone
}

type BasicInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID uint `gorm:"not null;uniqueIndex" json:"entry_id"`

	TeamName                string `gorm:"size:255" json:"team_name"`
	Genre                   string `gorm:"size:50" json:"genre"`
	Prefecture              string `gorm:"size:50" json:"prefecture"`
	RepresentativeName      string `gorm:"size:100" json:"representative_name"`
	RepresentativeKana      string `gorm:"size:100" json:"representative_kana"`
	RepresentativeBirthdate string `gorm:"size:10" json:"representative_birthdate"`
	RepresentativePhone     string `gorm:"size:30" json:"representative_phone"`
	RepresentativeEmail     string `gorm:"size:100" json:"representative_email"`

	// Required only while the representative is under 18.
	GuardianName  string `gorm:"size:100" json:"guardian_name"`
	GuardianPhone string `gorm:"size:30" json:"guardian_phone"`
	GuardianEmail string `gorm:"size:100" json:"guardian_email"`

	HasPartner       bool   `gorm:"default:false" json:"has_partner"`
	PartnerName      string `gorm:"size:100" json:"partner_name"`
	PartnerKana      string `gorm:"size:100" json:"partner_kana"`
	PartnerBirthdate string `gorm:"size:10" json:"partner_birthdate"`

	PartnerGuardianName  string `gorm:"size:100" json:"partner_guardian_name"`
	PartnerGuardianPhone string `gorm:"size:30" json:"partner_guardian_phone"`
	PartnerGuardianEmail string `gorm:"size:100" json:"partner_guardian_email"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (BasicInfo) TableName() string { return "basic_info" }

type PreliminaryInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID uint `gorm:"not null;uniqueIndex" json:"entry_id"`

	WorkTitle             string `gorm:"size:255" json:"work_title"`
	MusicTitle            string `gorm:"size:255" json:"music_title"`
	MusicArtist           string `gorm:"size:255" json:"music_artist"`
	ChoreographerName     string `gorm:"size:100" json:"choreographer_name"`
	ChoreographerFurigana string `gorm:"size:100" json:"choreographer_furigana"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PreliminaryInfo) TableName() string { return "preliminary_info" }

type ProgramInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID uint `gorm:"not null;uniqueIndex" json:"entry_id"`

	SongCount    string `gorm:"size:5" json:"song_count"`
	ProgramTitle string `gorm:"size:255" json:"program_title"`
	Introduction string `gorm:"type:text" json:"introduction"`
	// Only required when the program uses two songs.
	FinalStory string `gorm:"type:text" json:"final_story"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProgramInfo) TableName() string { return "program_info" }

// Chaser-song designation tokens. Semifinals uses the raw form values;
// finals stores the display tokens the stage synchronizer maps to.
const (
	ChaserIncluded    = "included"
	ChaserRequired    = "required"
	ChaserNotRequired = "not_required"

	FinalsChaserInMusicData = "in_music_data"
	FinalsChaserRequested   = "requested"
	FinalsChaserNone        = "none"
)

// LightScene is one lighting cue: five numbered scenes plus the chaser/exit
// block share this shape on the semifinals and finals records.
type LightScene struct {
	Time       string `gorm:"size:50" json:"time"`
	Trigger    string `gorm:"size:100" json:"trigger"`
	ColorType  string `gorm:"size:50" json:"color_type"`
	ColorOther string `gorm:"size:100" json:"color_other"`
	ImagePath  string `gorm:"size:512" json:"image_path"`
	Notes      string `gorm:"type:text" json:"notes"`
}

type SemifinalsInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID uint `gorm:"not null;uniqueIndex" json:"entry_id"`

	// Change flags: false keeps the group tracking the preliminary record.
	MusicChangeFromPreliminary         bool `gorm:"default:false" json:"music_change_from_preliminary"`
	ChoreographerChangeFromPreliminary bool `gorm:"default:false" json:"choreographer_change_from_preliminary"`

	WorkTitle     string `gorm:"size:255" json:"work_title"`
	MusicTitle    string `gorm:"size:255" json:"music_title"`
	MusicArtist   string `gorm:"size:255" json:"music_artist"`
	MusicDataPath string `gorm:"size:512" json:"music_data_path"`

	ChoreographerName     string `gorm:"size:100" json:"choreographer_name"`
	ChoreographerFurigana string `gorm:"size:100" json:"choreographer_furigana"`

	SoundStartTiming      string `gorm:"size:100" json:"sound_start_timing"`
	DanceStartTiming      string `gorm:"size:100" json:"dance_start_timing"`
	ChaserSongDesignation string `gorm:"size:20" json:"chaser_song_designation"`
	ChaserSongPath        string `gorm:"size:512" json:"chaser_song_path"`

	Scene1     LightScene `gorm:"embedded;embeddedPrefix:scene1_" json:"scene1"`
	Scene2     LightScene `gorm:"embedded;embeddedPrefix:scene2_" json:"scene2"`
	Scene3     LightScene `gorm:"embedded;embeddedPrefix:scene3_" json:"scene3"`
	Scene4     LightScene `gorm:"embedded;embeddedPrefix:scene4_" json:"scene4"`
	Scene5     LightScene `gorm:"embedded;embeddedPrefix:scene5_" json:"scene5"`
	ChaserExit LightScene `gorm:"embedded;embeddedPrefix:chaser_exit_" json:"chaser_exit"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SemifinalsInfo) TableName() string { return "semifinals_info" }

type FinalsInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID uint `gorm:"not null;uniqueIndex" json:"entry_id"`

	// Change flags: false keeps the group tracking the semifinals record on
	// every semifinals save; true makes this record's own values authoritative.
	MusicChange                  bool `gorm:"default:false" json:"music_change"`
	ChoreographerChange          bool `gorm:"default:false" json:"choreographer_change"`
	SoundChangeFromSemifinals    bool `gorm:"default:false" json:"sound_change_from_semifinals"`
	LightingChangeFromSemifinals bool `gorm:"default:false" json:"lighting_change_from_semifinals"`

	WorkTitle     string `gorm:"size:255" json:"work_title"`
	MusicTitle    string `gorm:"size:255" json:"music_title"`
	MusicArtist   string `gorm:"size:255" json:"music_artist"`
	MusicDataPath string `gorm:"size:512" json:"music_data_path"`

	ChoreographerName     string `gorm:"size:100" json:"choreographer_name"`
	ChoreographerFurigana string `gorm:"size:100" json:"choreographer_furigana"`

	SoundStartTiming      string `gorm:"size:100" json:"sound_start_timing"`
	DanceStartTiming      string `gorm:"size:100" json:"dance_start_timing"`
	ChaserSongDesignation string `gorm:"size:20" json:"chaser_song_designation"`
	ChaserSongPath        string `gorm:"size:512" json:"chaser_song_path"`

	Scene1     LightScene `gorm:"embedded;embeddedPrefix:scene1_" json:"scene1"`
	Scene2     LightScene `gorm:"embedded;embeddedPrefix:scene2_" json:"scene2"`
	Scene3     LightScene `gorm:"embedded;embeddedPrefix:scene3_" json:"scene3"`
	Scene4     LightScene `gorm:"embedded;embeddedPrefix:scene4_" json:"scene4"`
	Scene5     LightScene `gorm:"embedded;embeddedPrefix:scene5_" json:"scene5"`
	ChaserExit LightScene `gorm:"embedded;embeddedPrefix:chaser_exit_" json:"chaser_exit"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (FinalsInfo) TableName() string { return "finals_info" }

type SnsInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID uint `gorm:"not null;uniqueIndex" json:"entry_id"`

	InstagramHandle string `gorm:"size:100" json:"instagram_handle"`
	TiktokHandle    string `gorm:"size:100" json:"tiktok_handle"`
	PostingConsent  bool   `gorm:"default:false" json:"posting_consent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SnsInfo) TableName() string { return "sns_info" }

type ApplicationsInfo struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID uint `gorm:"not null;uniqueIndex" json:"entry_id"`

	TicketCount    string         `gorm:"size:5" json:"ticket_count"`
	CompanionNames pq.StringArray `gorm:"type:text[]" json:"companion_names"`
	TermsConsent   bool           `gorm:"default:false" json:"terms_consent"`
	PhotoConsent   bool           `gorm:"default:false" json:"photo_consent"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ApplicationsInfo) TableName() string { return "applications_info" }

// File types accepted for entry uploads.
const (
	FileTypeMusic = "music"
	FileTypeAudio = "audio"
	FileTypeVideo = "video"
	FileTypePhoto = "photo"
)

var ValidFileTypes = map[string]bool{
	FileTypeMusic: true,
	FileTypeAudio: true,
	FileTypeVideo: true,
	FileTypePhoto: true,
}

// Upload purposes. Every purpose here is single-slot: at most one live file
// per (entry, purpose); duplicates are tolerated on read (latest wins).
const (
	PurposePreliminaryVideo = "preliminary"
	PurposeSemifinalsMusic  = "semifinals_music"
	PurposeFinalsMusic      = "finals_music"
	PurposeSemifinalsChaser = "semifinals_chaser_song"
	PurposeFinalsChaser     = "finals_chaser_song"
	PurposeSnsPracticeVideo = "sns_practice_video"
	PurposePaymentSlip      = "payment_slip"
)

// SceneImagePurpose returns the purpose tag for a lighting-scene image,
// e.g. ("semifinals", 1) -> "semifinals_scene1_image".
func SceneImagePurpose(stage Stage, scene int) string {
	return fmt.Sprintf("%s_scene%d_image", stage, scene)
}

type EntryFile struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EntryID   uint      `gorm:"not null;index" json:"entry_id"`
	FileType  string    `gorm:"size:10;not null" json:"file_type"`
	Purpose   string    `gorm:"size:50;not null;index" json:"purpose"`
	Path      string    `gorm:"size:512;not null" json:"path"`
	SizeBytes int64     `gorm:"not null;default:0" json:"size_bytes"`
	MimeType  string    `gorm:"size:100" json:"mime_type"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EntryFile) TableName() string { return "entry_files" }

// StageRecords bundles the zero-or-one stage rows of a single entry. A nil
// pointer means the stage has not been started.
type StageRecords struct {
	BasicInfo    *BasicInfo
	Preliminary  *PreliminaryInfo
	Program      *ProgramInfo
	Semifinals   *SemifinalsInfo
	Finals       *FinalsInfo
	Sns          *SnsInfo
	Applications *ApplicationsInfo
}
