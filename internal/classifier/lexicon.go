package classifier

import "github.com/eliotalders0n/chatlens/pkg/model"

// emotionLexicon is the fixed 12-category keyword and emoji table. A message
// can score on several categories at once; there is no mutual exclusion.
var emotionLexicon = map[model.EmotionCategory][]string{
	model.EmotionJoy: {
		"happy", "yay", "awesome", "great news", "wonderful", "amazing",
		"so good", "lol", "haha", "hehe", "😀", "😁", "😂", "🤣", "😊", "😄",
	},
	model.EmotionAffection: {
		"love you", "love u", "miss you", "miss u", "my love", "sweetheart",
		"darling", "babe", "honey", "cutie", "xoxo", "❤", "😍", "🥰", "😘", "💕", "💖",
	},
	model.EmotionGratitude: {
		"thank you", "thanks", "thx", "grateful", "appreciate", "you're the best",
		"owe you", "🙏",
	},
	model.EmotionExcitement: {
		"can't wait", "cant wait", "so excited", "excited", "omg", "no way",
		"let's go", "lets go", "woohoo", "finally", "🎉", "🔥", "🤩",
	},
	model.EmotionTrust: {
		"i trust you", "trust you", "count on you", "believe in you",
		"i know you can", "always there", "rely on you",
	},
	model.EmotionPride: {
		"proud of you", "so proud", "well done", "nailed it", "crushed it",
		"you did it", "impressive", "💪",
	},
	model.EmotionSadness: {
		"sad", "crying", "miss him", "miss her", "heartbroken", "depressed",
		"lonely", "feel down", "unhappy", "😢", "😭", "💔",
	},
	model.EmotionAnger: {
		"angry", "furious", "pissed", "mad at", "so annoyed", "annoying",
		"hate this", "hate you", "fed up", "sick of", "😡", "🤬",
	},
	model.EmotionAnxiety: {
		"worried", "anxious", "nervous", "scared", "afraid", "stressed",
		"panicking", "freaking out", "can't sleep", "😰", "😨",
	},
	model.EmotionApology: {
		"sorry", "i apologize", "i apologise", "my bad", "my fault",
		"forgive me", "didn't mean", "didnt mean",
	},
	model.EmotionBetrayal: {
		"you lied", "lied to me", "betrayed", "cheated", "behind my back",
		"can't trust you", "cant trust you", "broke your promise",
	},
	model.EmotionShame: {
		"embarrassed", "ashamed", "humiliated", "cringe", "so awkward",
		"want to disappear", "feel stupid",
	},
}

// styleLexicon is the independent 8-category communication-style table.
// Declaration order breaks ties between equally-scored styles.
var styleOrder = []string{
	"assertive", "passive-aggressive", "defensive", "supportive",
	"planning", "questioning", "agreeing", "disagreeing",
}

var styleLexicon = map[string][]string{
	"assertive": {
		"i need", "i want", "we should", "you must", "listen to me",
		"let me be clear", "i expect",
	},
	"passive-aggressive": {
		"fine.", "whatever", "sure, whatever", "if you say so", "good for you",
		"no worries i guess", "forget it", "do what you want",
	},
	"defensive": {
		"it's not my fault", "its not my fault", "i didn't do", "i didnt do",
		"why are you blaming", "that's not what i said", "thats not what i said",
		"you always say",
	},
	"supportive": {
		"i'm here for you", "im here for you", "you got this", "it will be ok",
		"don't worry", "dont worry", "happy to help", "anything you need",
	},
	"planning": {
		"let's meet", "lets meet", "what time", "schedule", "tomorrow at",
		"this weekend", "see you at", "calendar", "book the",
	},
	"questioning": {
		"what do you think", "how come", "why did", "when will", "where are",
		"can you explain", "really?",
	},
	"agreeing": {
		"i agree", "you're right", "youre right", "exactly", "totally",
		"makes sense", "same here", "true that",
	},
	"disagreeing": {
		"i disagree", "i don't think so", "i dont think so", "not really",
		"that's wrong", "thats wrong", "no way that", "i doubt",
	},
}

// contextLexicon drives corpus-level context detection. With zero hits in
// every category the context defaults to "personal".
var contextOrder = []string{
	"business", "professional", "project", "love", "friendship",
	"family", "conflict", "technical", "support",
}

var contextLexicon = map[string][]string{
	"business": {
		"invoice", "client", "contract", "payment", "revenue", "quarterly",
		"stakeholder", "budget",
	},
	"professional": {
		"meeting", "deadline", "office", "manager", "interview", "resume",
		"promotion", "colleague",
	},
	"project": {
		"sprint", "milestone", "deliverable", "task", "ticket", "deploy",
		"release", "roadmap",
	},
	"love": {
		"love you", "date night", "kiss", "romantic", "anniversary",
		"my love", "valentine",
	},
	"friendship": {
		"bro", "dude", "bestie", "hang out", "hangout", "my friend",
		"mate", "buddy",
	},
	"family": {
		"mom", "dad", "mum", "sister", "brother", "grandma", "grandpa",
		"cousin", "aunt", "uncle",
	},
	"conflict": {
		"argue", "fight", "argument", "stop it", "leave me alone",
		"not talking to you", "done with this",
	},
	"technical": {
		"server", "code", "bug", "database", "compile", "api", "frontend",
		"backend", "crash",
	},
	"support": {
		"help me", "advice", "what should i do", "going through",
		"here for you", "talk about it", "listen",
	},
}

// toxicityLexicon is the per-message categorical scan used for the corpus
// toxicity score.
var toxicityLexicon = map[string][]string{
	"insults": {
		"idiot", "stupid", "loser", "pathetic", "worthless", "dumb",
	},
	"aggression": {
		"shut up", "screw you", "go away", "i hate you", "get lost",
	},
	"dismissive": {
		"whatever", "i don't care", "i dont care", "not my problem",
		"who asked", "nobody cares",
	},
	"manipulation": {
		"if you loved me", "after all i've done", "after all ive done",
		"you owe me", "you made me do",
	},
	"blame": {
		"it's all your fault", "its all your fault", "you always ruin",
		"because of you", "you never listen",
	},
}
