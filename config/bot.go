package config

// BotDifficulty affects reaction time and decision quality
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay   int     // Frames between decisions
	AimTolerance    float32 // Degrees of heading error accepted before shooting
	ChaseRange      float32 // Distance (units) under which the bot stops thrusting
	WanderThrustPct int     // Chance in percent to thrust while idle-wandering
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulties map[BotDifficulty]BotDifficultyConfig
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay:   25, // 0.5 second reaction time
				AimTolerance:    30,
				ChaseRange:      3.0,
				WanderThrustPct: 20,
			},
			BotDifficultyNormal: {
				ReactionDelay:   12,
				AimTolerance:    15,
				ChaseRange:      2.5,
				WanderThrustPct: 35,
			},
			BotDifficultyHard: {
				ReactionDelay:   4, // Near-instant reaction
				AimTolerance:    6,
				ChaseRange:      2.0,
				WanderThrustPct: 50,
			},
		},
	}
}
