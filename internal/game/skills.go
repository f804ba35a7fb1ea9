package game

// SpecialSkillID is the closed set of power-gated skills, one per hero type.
type SpecialSkillID string

const (
	GolpeEscudo      SpecialSkillID = "GOLPE_ESCUDO"
	EmbateSangriento SpecialSkillID = "EMBATE_SANGRIENTO"
	MisilesDeMagma   SpecialSkillID = "MISILES_DE_MAGMA"
	VorticeDeHielo   SpecialSkillID = "VORTICE_DE_HIELO"
	AgujaFunesta     SpecialSkillID = "AGUJA_FUNESTA"
	CortadaSuprema   SpecialSkillID = "CORTADA_SUPREMA"
	ToqueDeLaVida    SpecialSkillID = "TOQUE_DE_LA_VIDA"
	VinculoNatural   SpecialSkillID = "VINCULO_NATURAL"
)

// MasterSkillID is the closed set of cooldown-only master skills.
type MasterSkillID string

const (
	GolpeDefensa    MasterSkillID = "GOLPE_DEFENSA"
	SegundoImpulso  MasterSkillID = "SEGUNDO_IMPULSO"
	LuzCegadora     MasterSkillID = "LUZ_CEGADORA"
	FrioConcentrado MasterSkillID = "FRIO_CONCENTRADO"
	TomaLleva       MasterSkillID = "TOMA_LLEVA"
	Intimidacion    MasterSkillID = "INTIMIDACION"
	TeChangua       MasterSkillID = "TE_CHANGUA"
	Reanimador3000  MasterSkillID = "REANIMADOR_3000"
)
