package synth

type genrePool struct {
	theme string
	tags  []string
}

// Every pool holds at least four tags so a sample of up to four is always distinct.
var genrePools = []genrePool{
	{"indie", []string{"indie rock", "alternative", "indie pop", "garage rock", "shoegaze", "post-punk"}},
	{"hip-hop", []string{"hip hop", "rap", "trap", "conscious hip hop", "boom bap"}},
	{"electronic", []string{"electronic", "house", "techno", "edm", "synthwave"}},
	{"pop", []string{"pop", "dance pop", "electropop", "synth-pop", "teen pop"}},
	{"r&b", []string{"r&b", "neo soul", "contemporary r&b", "alternative r&b", "soul"}},
}

var albumAdjectives = []string{
	"Midnight", "Golden", "Electric", "Silent", "Velvet",
	"Neon", "Broken", "Endless", "Paper", "Crimson",
}

var albumNouns = []string{
	"Dreams", "Echoes", "Horizons", "Letters", "Skylines",
	"Tides", "Signals", "Gardens", "Machines", "Stories",
}

var trackFirstWords = []string{
	"Lost", "Summer", "Falling", "Wild", "Silver", "Late", "Northern", "Sweet",
}

var trackSecondWords = []string{
	"Heart", "Nights", "Lights", "Love", "Road", "Rain", "Fire", "Waves",
}

var playlistPrefixes = []string{"Late Night", "Chill", "Morning", "Workout", "Rainy Day", "Weekend"}

var playlistGenres = []string{"Indie", "Hip Hop", "Lo-Fi", "House", "Pop", "R&B", "Jazz"}

var playlistKinds = []string{"Favorites", "Road Trip Mix", "Study Session", "Throwbacks", "Daily Mix", "Party Starters"}

var coverImages = []string{
	"https://picsum.photos/seed/cover1/640/640",
	"https://picsum.photos/seed/cover2/640/640",
	"https://picsum.photos/seed/cover3/640/640",
	"https://picsum.photos/seed/cover4/640/640",
}

var artistImages = []string{
	"https://picsum.photos/seed/artist1/640/640",
	"https://picsum.photos/seed/artist2/640/640",
	"https://picsum.photos/seed/artist3/640/640",
}

var avatarImages = []string{
	"https://picsum.photos/seed/avatar1/300/300",
	"https://picsum.photos/seed/avatar2/300/300",
	"https://picsum.photos/seed/avatar3/300/300",
	"https://picsum.photos/seed/avatar4/300/300",
}

var bios = []string{
	"Building things on the internet.",
	"Coffee first. Opinions are my own.",
	"Photographer, traveler, occasional writer.",
	"Sharing what I learn along the way.",
	"Music, code and long walks.",
}
