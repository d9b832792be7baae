package emotion

import "regexp"

// All matching is done against lowercased text, so every word and
// pattern below is lowercase. Words match as substrings, mirroring how
// feedback phrasing varies ("frustrating" matches "frustratingly").

// frustrationCategory pairs a frustration type with its keyword list.
// Slice order is the tie-break order for classification.
type frustrationCategory struct {
	ftype FrustrationType
	words []string
}

var frustrationCategories = []frustrationCategory{
	{FrustrationTechnical, []string{
		"website", "platform", "error", "bug", "login", "system", "lms",
		"interface", "broken", "glitch",
	}},
	{FrustrationContent, []string{
		"material", "content", "lecture", "understand", "concept",
		"difficult", "confusing", "unclear",
	}},
	{FrustrationSupport, []string{
		"help", "support", "response", "answer", "question", "ignored",
		"waiting", "unresponsive",
	}},
	{FrustrationPace, []string{
		"fast", "slow", "pace", "speed", "keep up", "behind", "rushed",
		"dragging",
	}},
}

var generalFrustrationWords = []string{
	"frustrating", "difficult", "confused", "struggle", "hard", "annoying",
	"terrible", "awful", "horrible", "useless", "waste", "disappointed",
}

var strongAdverbs = []string{"extremely", "very", "incredibly", "terribly", "absolutely"}

var explicitFrustrationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(i('m| am)|feeling) (very |really |extremely )?(frustrated|annoyed|upset)`),
	regexp.MustCompile(`this is (very |really |extremely )?(frustrating|annoying|infuriating)`),
	regexp.MustCompile(`(can't|cannot) (stand|handle|deal with) (this|it)( anymore)?`),
}

// bandedLexicon holds indicator words split into weight bands.
type bandedLexicon struct {
	high, medium, low []string
}

var engagementWords = bandedLexicon{
	high:   []string{"excited", "interested", "engaged", "fascinating", "love", "enjoy", "captivating"},
	medium: []string{"good", "okay", "fine", "decent", "reasonable", "satisfactory"},
	low:    []string{"boring", "dull", "uninteresting", "tedious", "monotonous", "disengaged"},
}

var confidenceWords = bandedLexicon{
	high:   []string{"confident", "sure", "certain", "understand", "grasp", "mastered", "clear"},
	medium: []string{"somewhat understand", "getting it", "making progress", "improving"},
	low:    []string{"confused", "lost", "uncertain", "unclear", "don't understand", "struggling"},
}

var (
	explicitLoveRe = regexp.MustCompile(`(i (really |absolutely )?(love|enjoy|like))`)
	explicitHateRe = regexp.MustCompile(`(i (really |absolutely )?(hate|dislike|can't stand))`)

	explicitConfidentRe = regexp.MustCompile(`(i('m| am) (very |really |extremely )?(confident|sure|certain))`)
	explicitConfusedRe  = regexp.MustCompile(`(i('m| am) (very |really |extremely )?(confused|lost|unsure))`)
)

var positiveSatisfactionWords = []string{"satisfied", "happy", "pleased", "great", "excellent", "good", "helpful"}
var negativeSatisfactionWords = []string{"unsatisfied", "unhappy", "disappointed", "poor", "terrible", "bad", "unhelpful"}

// urgencyLadder is checked top to bottom; the first level with a phrase
// hit wins.
var urgencyLadder = []struct {
	level   UrgencyLevel
	phrases []string
}{
	{UrgencyImmediate, []string{
		"immediately", "urgent", "asap", "right now", "can't wait",
		"emergency", "critical", "desperate",
	}},
	{UrgencyCritical, []string{
		"very urgent", "need help now", "can't continue", "blocking me",
		"impossible", "giving up",
	}},
	{UrgencyHigh, []string{
		"soon", "quickly", "need help", "struggling", "important",
		"priority", "stuck",
	}},
	{UrgencyMedium, []string{
		"when possible", "would like", "appreciate", "should be addressed",
		"needs attention",
	}},
	{UrgencyLow, []string{
		"eventually", "minor", "small issue", "not urgent", "whenever",
		"no rush",
	}},
}

// taggedPattern labels a compiled pattern with the signal it raises.
type taggedPattern struct {
	tag string
	re  *regexp.Regexp
}

var urgencySignalPatterns = []taggedPattern{
	{"considering_dropping", regexp.MustCompile(`(thinking|considering) (of )?(dropping|quitting|leaving)`)},
	{"missed_deadlines", regexp.MustCompile(`(missed|missing|late|behind on) (deadline|assignment|submission|work)`)},
	{"help_requests", regexp.MustCompile(`(need|asking for|requesting) help`)},
	{"progress_blocked", regexp.MustCompile(`(can't|cannot|unable to) (continue|proceed|move forward|progress)`)},
	{"timeline_pressure", regexp.MustCompile(`(deadline|due date) (approaching|coming up|soon)`)},
	{"repeated_attempts", regexp.MustCompile(`(tried|attempted) (multiple times|several times|many times)`)},
}

var hotWords = []string{
	"angry", "furious", "excited", "thrilled", "frustrated", "enraged",
	"anxious", "stressed", "panicked", "desperate", "urgent", "passionate",
}

var coldWords = []string{
	"calm", "detached", "indifferent", "bored", "tired", "exhausted",
	"apathetic", "disinterested", "resigned", "defeated", "numb",
}

var intensifierWords = []string{"very", "extremely", "incredibly", "absolutely", "completely", "totally"}

var hiddenPatterns = []taggedPattern{
	{"resigned_acceptance", regexp.MustCompile(`(it's|its) (fine|okay|alright)( i guess| i suppose)?`)},
	{"minimizing_language", regexp.MustCompile(`not (too|that) bad`)},
	{"comparative_deflection", regexp.MustCompile(`could be (better|worse)`)},
	{"hedged_approval", regexp.MustCompile(`i (suppose|guess) it('s| is) (okay|fine|alright)`)},
	{"bare_adequacy", regexp.MustCompile(`(works|functions) (well enough|adequately)`)},
	{"qualified_usefulness", regexp.MustCompile(`(somewhat|kind of|sort of) (helpful|useful)`)},
	{"lowered_expectations", regexp.MustCompile(`(better than|not as bad as) (expected|anticipated)`)},
	{"suppressed_complaint", regexp.MustCompile(`(can't complain|no complaints) (too much|much)`)},
	{"effort_excuse", regexp.MustCompile(`(doing|trying) (my|their) best`)},
	{"self_blame", regexp.MustCompile(`(probably|maybe) just me`)},
}

var (
	praiseWithReservationsRes = []*regexp.Regexp{
		regexp.MustCompile(`(good|great|nice) but`),
		regexp.MustCompile(`(like|enjoy).*(however|though|but)`),
	}
	faintPraiseRe        = regexp.MustCompile(`(somewhat|kind of|sort of) (good|helpful|useful)`)
	diplomaticLanguageRe = regexp.MustCompile(`(i appreciate|thank you for) (the effort|trying|attempting)`)
)

var politenessPhrases = []string{
	"thank you", "thanks for", "appreciate", "grateful", "please",
	"if possible", "if you could", "would be nice", "understand that",
	"i know that", "i realize",
}

var (
	deepGratitudeRe = regexp.MustCompile(`(very|really|truly|so) (grateful|thankful|appreciative)`)
	politeApologyRe = regexp.MustCompile(`(sorry to|apologize for) (bother|trouble|disturb)`)

	authenticityMixedRes = []*regexp.Regexp{
		regexp.MustCompile(`(good|great|excellent).*(but|however|though)`),
		regexp.MustCompile(`(like|enjoy).*(but|however|though)`),
		regexp.MustCompile(`(not complaining|don't want to complain).*(but|however|though)`),
	}
	authenticityMarkerRes = []*regexp.Regexp{
		regexp.MustCompile(`honestly`),
		regexp.MustCompile(`to be honest`),
		regexp.MustCompile(`frankly`),
		regexp.MustCompile(`to tell the truth`),
		regexp.MustCompile(`i (really|truly) (feel|think|believe)`),
		regexp.MustCompile(`i'm not going to lie`),
	}
)

// emotionGroup names an emotion and the phrases that imply it beyond a
// direct mention of the word itself.
type emotionGroup struct {
	name    string
	phrases []string
}

var dropoutEmotionWords = []string{
	"helplessness", "overwhelm", "isolation", "despair", "frustration",
	"anxiety", "hopelessness", "defeat", "inadequacy", "disconnection",
}

var dropoutEmotionGroups = []emotionGroup{
	{"helplessness", []string{"can't do this", "beyond me", "impossible for me", "no way i can"}},
	{"overwhelm", []string{"too much", "overwhelming", "drowning in", "can't keep up", "too difficult"}},
	{"isolation", []string{"all alone", "no one helps", "no support", "by myself", "no one responds"}},
	{"despair", []string{"giving up", "no point", "useless to try", "hopeless", "waste of time"}},
	{"anxiety", []string{"anxious", "worried", "stressed", "panic", "fear", "dread"}},
}

var recoveryEmotionWords = []string{
	"hope", "determination", "gratitude", "optimism", "relief",
	"confidence", "satisfaction", "enthusiasm", "motivation", "connection",
}

var recoveryEmotionGroups = []emotionGroup{
	{"hope", []string{"hoping", "look forward to", "optimistic", "better next time"}},
	{"determination", []string{"determined", "will try again", "not giving up", "keep working"}},
	{"gratitude", []string{"thankful", "appreciate", "grateful", "thanks for"}},
	{"confidence", []string{"confident", "i can do this", "getting better at", "improving"}},
	{"enthusiasm", []string{"excited", "looking forward", "can't wait", "eager"}},
}

// triggerDef names an emotional trigger and the patterns that reveal
// it. Each trigger is reported at most once per text.
type triggerDef struct {
	name     string
	patterns []*regexp.Regexp
}

var triggerDefs = []triggerDef{
	{"deadline_pressure", []*regexp.Regexp{
		regexp.MustCompile(`deadline`),
		regexp.MustCompile(`due date`),
		regexp.MustCompile(`running out of time`),
		regexp.MustCompile(`not enough time`),
	}},
	{"technical_issues", []*regexp.Regexp{
		regexp.MustCompile(`(website|system|platform) (doesn't work|isn't working|broken)`),
		regexp.MustCompile(`technical (issue|problem|error)`),
	}},
	{"content_difficulty", []*regexp.Regexp{
		regexp.MustCompile(`(too|very) (difficult|hard|complex)`),
		regexp.MustCompile(`don't understand`),
		regexp.MustCompile(`confused by`),
	}},
	{"lack_of_support", []*regexp.Regexp{
		regexp.MustCompile(`no (help|support|response)`),
		regexp.MustCompile(`no one (answers|responds)`),
		regexp.MustCompile(`waiting for (help|response)`),
	}},
	{"peer_comparison", []*regexp.Regexp{
		regexp.MustCompile(`everyone else (gets it|understands)`),
		regexp.MustCompile(`falling behind`),
		regexp.MustCompile(`only one struggling`),
	}},
	{"feedback_issues", []*regexp.Regexp{
		regexp.MustCompile(`(no|unclear|unhelpful) feedback`),
		regexp.MustCompile(`don't know (how|what) i'm doing wrong`),
	}},
	{"workload_issues", []*regexp.Regexp{
		regexp.MustCompile(`too (much|many) (assignments|tasks|work)`),
		regexp.MustCompile(`workload is (overwhelming|too much)`),
	}},
	{"instructor_issues", []*regexp.Regexp{
		regexp.MustCompile(`instructor (doesn't|isn't) (explain|clear|helpful)`),
		regexp.MustCompile(`teaching style`),
	}},
}

var emotionVocabulary = []string{
	"happy", "sad", "angry", "frustrated", "confused", "anxious", "excited",
	"bored", "interested", "confident", "worried", "overwhelmed",
	"satisfied", "disappointed", "hopeful", "discouraged", "grateful",
	"annoyed", "proud",
}

var positiveEmotionWords = []string{
	"happy", "excited", "interested", "confident", "satisfied", "hopeful",
	"grateful", "proud",
}

var negativeEmotionWords = []string{
	"sad", "angry", "frustrated", "confused", "anxious", "bored", "worried",
	"overwhelmed", "disappointed", "discouraged", "annoyed",
}

var mixedFeelingRes = []*regexp.Regexp{
	regexp.MustCompile(`mixed feelings`),
	regexp.MustCompile(`conflicted`),
	regexp.MustCompile(`torn`),
	regexp.MustCompile(`on one hand.*(on the other)`),
	regexp.MustCompile(`part of me.*(another part)`),
	regexp.MustCompile(`both happy and`),
	regexp.MustCompile(`both frustrated and`),
}
