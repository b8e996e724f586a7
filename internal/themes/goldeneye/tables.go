package goldeneye

// Difficulty levels. An objective applies when its difficulty is at or below
// the selected one.
const (
	Agent       = 0
	SecretAgent = 1
	DoubleOh    = 2
)

var difficultyNames = []string{"AGENT", "SECRET AGENT", "00 AGENT"}

// Objective is one mission briefing entry.
type Objective struct {
	Text       string
	Difficulty int
}

// Mission is a level's name and objective list.
type Mission struct {
	Name       string
	Objectives []Objective
}

func obj(text string, diff int) Objective {
	return Objective{Text: text, Difficulty: diff}
}

// missions is keyed by level id.
var missions = map[int]Mission{
	33: {"Dam", []Objective{
		obj("Bungee jump from the platform", Agent),
		obj("Neutralize all alarms", SecretAgent),
		obj("Install covert modem", DoubleOh),
		obj("Intercept data backup", DoubleOh),
	}},
	34: {"Facility", []Objective{
		obj("Gain entry to the laboratory area", Agent),
		obj("Contact double agent", Agent),
		obj("Rendezvous with 006", Agent),
		obj("Destroy all tanks in the bottling room", SecretAgent),
		obj("Minimize scientist casualties", DoubleOh),
	}},
	35: {"Runway", []Objective{
		obj("Find plane ignition key", Agent),
		obj("Escape in the plane", Agent),
		obj("Destroy missile battery", SecretAgent),
		obj("Obtain building plans", DoubleOh),
	}},
	36: {"Surface 1", []Objective{
		obj("Power down communications dish", Agent),
		obj("Enter base via ventilation tower", Agent),
		obj("Obtain safe key", SecretAgent),
		obj("Destroy all security cameras", DoubleOh),
	}},
	37: {"Bunker 1", []Objective{
		obj("Disarm nuclear bomb", Agent),
		obj("Copy GoldenEye key", Agent),
		obj("Get personnel to activate computer", SecretAgent),
		obj("Download data from computer", SecretAgent),
		obj("Photograph main video screen", DoubleOh),
	}},
	38: {"Silo", []Objective{
		obj("Plant explosives in fuel rooms", Agent),
		obj("Photograph satellite", Agent),
		obj("Obtain telemetric data", SecretAgent),
		obj("Retrieve satellite circuitry", DoubleOh),
		obj("Minimize scientist casualties", DoubleOh),
	}},
	39: {"Frigate", []Objective{
		obj("Rescue hostages", Agent),
		obj("Plant tracking bug on helicopter", Agent),
		obj("Disarm bridge bomb", SecretAgent),
		obj("Disarm engine room bomb", DoubleOh),
	}},
	40: {"Surface 2", []Objective{
		obj("Disrupt all surveillance equipment", Agent),
		obj("Break communications link to bunker", Agent),
		obj("Disable Spetsnaz support aircraft", SecretAgent),
		obj("Gain entry to bunker", Agent),
	}},
	41: {"Bunker 2", []Objective{
		obj("Compare staff and casualty lists", Agent),
		obj("Recover CCTV tape", Agent),
		obj("Escape to safety", Agent),
		obj("Disable all security cameras", SecretAgent),
		obj("Recover GoldenEye operations manual", DoubleOh),
	}},
	42: {"Statue", []Objective{
		obj("Contact Valentin", Agent),
		obj("Confront and unmask Janus", Agent),
		obj("Locate helicopter", Agent),
		obj("Rescue Natalya", Agent),
		obj("Find flight recorder", SecretAgent),
	}},
	43: {"Archives", []Objective{
		obj("Escape from interrogation room", Agent),
		obj("Find Natalya", Agent),
		obj("Recover helicopter black box", SecretAgent),
		obj("Escape with Natalya", Agent),
	}},
	44: {"Streets", []Objective{
		obj("Contact Valentin", Agent),
		obj("Pursue Ourumov and Natalya", Agent),
		obj("Minimize civilian casualties", SecretAgent),
	}},
	45: {"Depot", []Objective{
		obj("Destroy illegal arms cache", Agent),
		obj("Destroy computer network", Agent),
		obj("Obtain safe key", SecretAgent),
	}},
	46: {"Train", []Objective{
		obj("Destroy brake units", Agent),
		obj("Rescue Natalya", Agent),
		obj("Locate Janus secret base", SecretAgent),
		obj("Crack Boris's password", DoubleOh),
	}},
	47: {"Jungle", []Objective{
		obj("Escort Natalya to Janus base", Agent),
		obj("Destroy drone guns", SecretAgent),
		obj("Eliminate Xenia", DoubleOh),
	}},
	48: {"Control", []Objective{
		obj("Protect Natalya", Agent),
		obj("Disable GoldenEye satellite", Agent),
		obj("Destroy armored mainframes", SecretAgent),
	}},
	49: {"Caverns", []Objective{
		obj("Destroy inlet pump controls", Agent),
		obj("Destroy outlet pump controls", Agent),
		obj("Destroy master control console", SecretAgent),
		obj("Use radio to contact Jack Wade", DoubleOh),
		obj("Minimize scientist casualties", DoubleOh),
	}},
	50: {"Cradle", []Objective{
		obj("Destroy control console", Agent),
		obj("Settle the score with 006", Agent),
	}},
	51: {"Aztec", []Objective{
		obj("Reprogram shuttle guidance", Agent),
		obj("Launch shuttle", Agent),
	}},
	52: {"Egyptian", []Objective{
		obj("Recover the Golden Gun", Agent),
		obj("Defeat Baron Samedi", Agent),
	}},
}

// weapons follows the ITEM_IDS enum.
var weapons = map[int]string{
	0x00: "Unarmed",
	0x01: "Hunting Knife",
	0x02: "Throwing Knife",
	0x03: "PP7",
	0x04: "PP7 (Silenced)",
	0x05: "DD44 Dostovei",
	0x06: "Klobb",
	0x07: "KF7 Soviet",
	0x08: "ZMG (9mm)",
	0x09: "D5K Deutsche",
	0x0A: "D5K (Silenced)",
	0x0B: "Phantom",
	0x0C: "AR33",
	0x0D: "RC-P90",
	0x0E: "Shotgun",
	0x0F: "Auto Shotgun",
	0x10: "Sniper Rifle",
	0x11: "Cougar Magnum",
	0x12: "Golden Gun",
	0x13: "Silver PP7",
	0x14: "Gold PP7",
	0x15: "Laser",
	0x16: "Watch Laser",
	0x17: "Grenade Launcher",
	0x18: "Rocket Launcher",
	0x19: "Hand Grenades",
	0x1A: "Timed Mines",
	0x1B: "Proximity Mines",
	0x1C: "Remote Mines",
	0x1D: "Detonator",
	0x1E: "Taser",
	0x1F: "Tank",
}

// Reserve ammo array indices.
const (
	ammoPistol = iota
	ammoSMG
	ammoRifle
	ammoShotgun
	ammoGrenade
	ammoRemote
	ammoProximity
	ammoTimed
	ammoThrowing
	ammoRocket
	ammoGrenadeLauncher
	ammoMagnum
	ammoGoldenGun
	ammoLaser
	ammoTank
	ammoSniper
)

var ammoTypeForWeapon = map[int]int{
	0x03: ammoPistol, 0x04: ammoPistol, 0x05: ammoPistol, 0x13: ammoPistol, 0x14: ammoPistol,
	0x06: ammoSMG, 0x08: ammoSMG, 0x09: ammoSMG, 0x0A: ammoSMG, 0x0B: ammoSMG,
	0x07: ammoRifle, 0x0C: ammoRifle, 0x0D: ammoRifle,
	0x0E: ammoShotgun, 0x0F: ammoShotgun,
	0x19: ammoGrenade,
	0x1C: ammoRemote,
	0x1B: ammoProximity,
	0x1A: ammoTimed,
	0x02: ammoThrowing,
	0x18: ammoRocket,
	0x17: ammoGrenadeLauncher,
	0x11: ammoMagnum,
	0x12: ammoGoldenGun,
	0x15: ammoLaser, 0x16: ammoLaser,
	0x1F: ammoTank,
	0x10: ammoSniper,
}

// noMagazine lists weapons shown without a magazine/reserve pair.
var noMagazine = map[int]bool{
	0x00: true, 0x01: true, 0x02: true, 0x19: true,
	0x1A: true, 0x1B: true, 0x1C: true, 0x1D: true,
	0x1E: true, 0x16: true,
}
