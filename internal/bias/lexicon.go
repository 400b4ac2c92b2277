package bias

// The lexicon below is a compact subjectivity vocabulary: strong entries are
// loaded evaluative words, weak entries are milder qualifiers, intensifiers
// amplify whatever they attach to, and stance words mark hedging or personal
// framing.

var (
	strongWords = []string{
		"amazing", "awful", "beautiful", "best", "brilliant", "disgusting",
		"dreadful", "excellent", "fantastic", "gorgeous", "great", "hate",
		"hideous", "horrible", "idiotic", "incredible", "insane", "love",
		"outrageous", "pathetic", "perfect", "ridiculous", "shocking",
		"stunning", "stupid", "terrible", "ugly", "unbelievable", "wonderful",
		"worst", "corrupt", "evil", "genius", "disaster", "scam", "lie",
		"lies", "fake",
	}

	weakWords = []string{
		"bad", "better", "big", "boring", "cheap", "clean", "clever", "cool",
		"dirty", "easy", "expensive", "fair", "fine", "good", "hard", "happy",
		"important", "interesting", "nice", "odd", "old", "poor", "pretty",
		"right", "sad", "simple", "slow", "small", "smart", "strange",
		"strong", "unfair", "weak", "weird", "worse", "wrong", "young",
		"popular", "serious", "successful", "dangerous", "useless", "useful",
	}

	intensifierWords = []string{
		"absolutely", "completely", "definitely", "entirely", "extremely",
		"highly", "incredibly", "literally", "really", "so", "totally",
		"truly", "utterly", "very", "never", "always", "everyone", "nobody",
	}

	stanceWords = []string{
		"i", "me", "my", "we", "our", "you", "your", "think", "believe",
		"feel", "guess", "hope", "seems", "apparently", "probably", "maybe",
		"should", "must", "surely", "clearly", "honestly", "obviously",
	}
)
