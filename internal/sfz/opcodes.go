package sfz

// Section headers.
const (
	headerGlobal = "global"
	headerGroup  = "group"
	headerRegion = "region"
)

// Opcodes written by the creator.
const (
	opGlobalLabel = "global_label"
	opGroupLabel  = "group_label"

	opSeqLength   = "seq_length"
	opSeqPosition = "seq_position"

	opSample    = "sample"
	opDirection = "direction"

	opKey            = "key"
	opPitchKeycenter = "pitch_keycenter"
	opLoKey          = "lokey"
	opHiKey          = "hikey"
	opXfInLoKey      = "xfin_lokey"
	opXfInHiKey      = "xfin_hikey"
	opXfOutLoKey     = "xfout_lokey"
	opXfOutHiKey     = "xfout_hikey"

	opLoVel      = "lovel"
	opHiVel      = "hivel"
	opXfInLoVel  = "xfin_lovel"
	opXfInHiVel  = "xfin_hivel"
	opXfOutLoVel = "xfout_lovel"
	opXfOutHiVel = "xfout_hivel"

	opOffset = "offset"
	opEnd    = "end"

	opTune          = "tune"
	opPitchKeytrack = "pitch_keytrack"
	opVolume        = "volume"

	opAmpegDelay   = "ampeg_delay"
	opAmpegAttack  = "ampeg_attack"
	opAmpegHold    = "ampeg_hold"
	opAmpegDecay   = "ampeg_decay"
	opAmpegRelease = "ampeg_release"
	opAmpegStart   = "ampeg_start"
	opAmpegSustain = "ampeg_sustain"

	opLoopMode      = "loop_mode"
	opLoopType      = "loop_type"
	opLoopStart     = "loop_start"
	opLoopEnd       = "loop_end"
	opLoopCrossfade = "loop_crossfade"
)
