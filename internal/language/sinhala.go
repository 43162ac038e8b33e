package language

// sinhalaTable romanizes Sinhala script into the Latin letters an English
// acoustic model can score. Virama maps to nothing.
var sinhalaTable = map[rune]string{
	'අ': "a", 'ආ': "aa", 'ඇ': "ae", 'ඈ': "aae", 'ඉ': "i", 'ඊ': "ii",
	'උ': "u", 'ඌ': "uu", 'ඍ': "ru", 'ඎ': "ruu", 'එ': "e", 'ඒ': "ee",
	'ඓ': "ai", 'ඔ': "o", 'ඕ': "oo", 'ඖ': "au",

	'ක': "ka", 'ඛ': "kha", 'ග': "ga", 'ඝ': "gha", 'ඞ': "nga",
	'ච': "cha", 'ඡ': "chha", 'ජ': "ja", 'ඣ': "jha", 'ඤ': "nya",
	'ට': "ta", 'ඨ': "tha", 'ඩ': "da", 'ඪ': "dha", 'ණ': "na",
	'ත': "tha", 'ථ': "thha", 'ද': "da", 'ධ': "dha", 'න': "na",
	'ප': "pa", 'ඵ': "pha", 'බ': "ba", 'භ': "bha", 'ම': "ma",
	'ය': "ya", 'ර': "ra", 'ල': "la", 'ව': "va", 'ශ': "sha",
	'ෂ': "sha", 'ස': "sa", 'හ': "ha", 'ළ': "la", 'ෆ': "fa",

	'්': "", 'ා': "a", 'ැ': "e", 'ෑ': "ee", 'ි': "i", 'ී': "ii",
	'ු': "u", 'ූ': "uu", 'ෘ': "ru", 'ෙ': "e", 'ේ': "ee", 'ෛ': "ai",
	'ො': "o", 'ෝ': "oo", 'ෞ': "au", 'ං': "ng", 'ඃ': "h",
}
