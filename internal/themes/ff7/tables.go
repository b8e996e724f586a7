package ff7

// characterNames indexes the save-block roster.
var characterNames = []string{
	"Cloud", "Barret", "Tifa", "Aerith", "Red XIII", "Yuffie", "Cait Sith", "Vincent", "Cid",
}

// elementNames indexes scene element ids.
var elementNames = []string{
	"Fire", "Ice", "Lightning", "Earth", "Poison", "Gravity", "Water", "Wind", "Holy",
}

// Scene element rate codes.
const (
	rateDeath  = 0x00
	rateWeak   = 0x02
	rateHalf   = 0x04
	rateNull   = 0x05
	rateAbsorb = 0x06
)

type statusFlag struct {
	mask uint32
	name string
}

// statusFlags lists the scene immunity bits. The mask is inverted in memory:
// a clear bit means the enemy is immune.
var statusFlags = []statusFlag{
	{0x00000001, "Death"},
	{0x00000004, "Sleep"},
	{0x00000008, "Poison"},
	{0x00000040, "Confusion"},
	{0x00000080, "Silence"},
	{0x00000200, "Slow"},
	{0x00000400, "Stop"},
	{0x00000800, "Frog"},
	{0x00001000, "Small"},
	{0x00002000, "Slow-Numb"},
	{0x00004000, "Petrify"},
	{0x00200000, "Doom"},
	{0x00400000, "Manipulate"},
	{0x00800000, "Berserk"},
	{0x02000000, "Paralysis"},
	{0x04000000, "Darkness"},
}

// items names the steal table entries seen in scene data.
var items = map[uint16]string{
	0: "Potion", 1: "Hi-Potion", 2: "X-Potion", 3: "Ether", 4: "Turbo Ether",
	5: "Elixir", 6: "Megalixir", 7: "Phoenix Down", 8: "Antidote", 9: "Soft",
	10: "Maiden's Kiss", 11: "Cornucopia", 12: "Echo Screen", 13: "Hyper",
	14: "Tranquilizer", 15: "Remedy", 16: "Smoke Bomb", 17: "Speed Drink",
	18: "Hero Drink", 19: "Vaccine", 20: "Grenade", 21: "Shrapnel",
	22: "Right Arm", 23: "Hourglass", 24: "Kiss of Death", 25: "Spider Web",
	26: "Dream Powder", 27: "Mute Mask", 28: "War Gong", 29: "Loco Weed",
	30: "Fire Fang", 31: "Fire Veil", 32: "Antarctic Wind", 33: "Ice Crystal",
	34: "Bolt Plume", 35: "Swift Bolt", 36: "Earth Drum", 37: "Earth Mallet",
	38: "Deadly Waste", 39: "M-Tentacles", 40: "Stardust", 41: "Vampire Fang",
	42: "Ghost Hand", 43: "Dazers", 44: "Dragon Scales", 45: "Impaler",
	46: "Shrivel", 47: "Eye Drop", 48: "Molotov", 49: "S-Mine",
	50: "T/S Bomb", 51: "Ink", 52: "Tent", 53: "Power Source",
	54: "Guard Source", 55: "Magic Source", 56: "Mind Source", 57: "Speed Source",
	58: "Luck Source", 59: "Zeio Nut", 60: "Carob Nut",
	72: "Graviball", 73: "Light Curtain", 74: "Lunar Curtain",
	75: "Mirror", 76: "Holy Torch", 77: "Bird Wing", 78: "Dragon Fang",
	79: "Cauldron", 80: "Sylkis Greens",
	96: "Gravity Materia", 97: "Destruct Materia",
	128: "Hardedge", 160: "Diamond Bangle", 176: "Fairy Ring",
	192: "Steal Materia", 193: "Sense Materia",
	255: "Nothing",
}
