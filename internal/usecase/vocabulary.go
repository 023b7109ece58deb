package usecase

// Vocabulary bundles the static lookup tables the matching engine reads:
// the two modifier classes and the multilingual term-translation table.
// It is built once at process start and shared read-only by all requests;
// extending the product vocabulary means editing the tables below, never
// the algorithm code.
type Vocabulary struct {
	Exclusive    map[string]bool
	Descriptive  map[string]bool
	Translations map[string]string
}

// exclusiveModifiers are tokens that denote a materially different product:
// color words, processing states, origins, species, plant parts, named
// varietals. A query carrying one of these must not match a candidate of a
// different variety. The list is hand-maintained and known to be incomplete.
var exclusiveModifiers = map[string]bool{
	// Colors
	"red": true, "green": true, "yellow": true, "purple": true,
	"black": true, "white": true, "orange": true,
	// Processing states
	"sweet": true, "sour": true, "bitter": true, "frozen": true,
	"dried": true, "smoked": true, "salted": true, "fried": true,
	"roasted": true, "fermented": true, "pickled": true, "canned": true,
	// Countries / origins
	"japanese": true, "chinese": true, "korean": true, "thai": true,
	"indian": true, "spanish": true, "holland": true, "import": true,
	// Animal species
	"quail": true, "duck": true, "goat": true, "baby": true,
	// Plant parts
	"flower": true, "leaf": true, "seed": true, "root": true, "stem": true,
	// Named varietals
	"cherry": true, "tangerine": true, "fuji": true, "gala": true,
	"cavendish": true, "shiitake": true, "romaine": true, "iceberg": true,
}

// descriptiveModifiers are tokens that qualify a product without changing
// its identity: size words, generic quality words, portion words. They never
// block a match and may slightly favor one.
var descriptiveModifiers = map[string]bool{
	// Size
	"large": true, "medium": true, "small": true, "big": true,
	"jumbo": true, "mini": true,
	// Quality
	"fresh": true, "premium": true, "organic": true, "super": true,
	"extra": true, "grade": true, "quality": true, "selected": true,
	"special": true, "local": true, "clean": true, "washed": true,
	// Portion
	"whole": true, "half": true, "piece": true, "cut": true,
}

// termTranslations maps single tokens in supplier languages (Indonesian and
// Spanish observed in real price lists) to their canonical English form.
// Translation runs before modifier classification, so the modifier tables
// above stay English-only.
var termTranslations = map[string]string{
	// Indonesian - proteins
	"ayam": "chicken", "sapi": "beef", "ikan": "fish", "telur": "egg",
	"udang": "shrimp", "cumi": "squid", "bebek": "duck",
	// Indonesian - produce
	"wortel": "carrot", "kentang": "potato", "bawang": "onion",
	"tomat": "tomato", "bayam": "spinach", "cabai": "chili", "cabe": "chili",
	"jagung": "corn", "timun": "cucumber", "terong": "eggplant",
	"jamur": "mushroom", "kol": "cabbage", "sawi": "mustard",
	// Indonesian - staples
	"beras": "rice", "gula": "sugar", "garam": "salt", "minyak": "oil",
	"tepung": "flour", "susu": "milk", "keju": "cheese", "mentega": "butter",
	// Indonesian - fruit
	"apel": "apple", "jeruk": "orange", "pisang": "banana",
	"semangka": "watermelon", "mangga": "mango", "anggur": "grape",
	// Indonesian - modifiers
	"merah": "red", "hijau": "green", "putih": "white", "kuning": "yellow",
	"besar": "large", "kecil": "small", "segar": "fresh", "beku": "frozen",
	"manis": "sweet", "goreng": "fried", "lokal": "local", "impor": "import",
	"utuh": "whole", "potong": "cut",
	// Spanish - proteins
	"pollo": "chicken", "res": "beef", "pescado": "fish", "huevo": "egg",
	"huevos": "egg", "camaron": "shrimp",
	// Spanish - produce
	"zanahoria": "carrot", "papa": "potato", "patata": "potato",
	"cebolla": "onion", "tomate": "tomato", "espinaca": "spinach",
	"maiz": "corn", "pepino": "cucumber",
	// Spanish - staples
	"arroz": "rice", "azucar": "sugar", "sal": "salt", "aceite": "oil",
	"harina": "flour", "leche": "milk", "queso": "cheese",
	// Spanish - fruit
	"manzana": "apple", "naranja": "orange", "platano": "banana",
	"sandia": "watermelon", "uva": "grape",
	// Spanish - modifiers
	"rojo": "red", "roja": "red", "verde": "green", "blanco": "white",
	"blanca": "white", "grande": "large", "pequeno": "small",
	"fresco": "fresh", "fresca": "fresh", "congelado": "frozen",
	"dulce": "sweet", "entero": "whole",
}

// DefaultVocabulary returns the vocabulary built from the shipped tables
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Exclusive:    exclusiveModifiers,
		Descriptive:  descriptiveModifiers,
		Translations: termTranslations,
	}
}

// IsModifier reports whether a token belongs to either modifier class
func (v *Vocabulary) IsModifier(token string) bool {
	return v.Exclusive[token] || v.Descriptive[token]
}
