package models

// KitchenInventory is the per-user record of owned cooking equipment,
// grouped by category. Counts for sized cookware, booleans for everything
// that is either owned or not.
type KitchenInventory struct {
	Pots       SizedCounts  `json:"pots"`
	Pans       SizedCounts  `json:"pans"`
	Baking     BakingCounts `json:"baking"`
	Appliances Appliances   `json:"appliances"`
	PrepTools  PrepTools    `json:"prep_tools"`
	Specialty  Specialty    `json:"specialty"`
}

// SizedCounts counts cookware by size.
type SizedCounts struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

// BakingCounts counts bakeware by kind.
type BakingCounts struct {
	BakingSheet int `json:"baking_sheet"`
	CakePan     int `json:"cake_pan"`
	MuffinTin   int `json:"muffin_tin"`
	LoafPan     int `json:"loaf_pan"`
	PieDish     int `json:"pie_dish"`
}

// Appliances flags owned kitchen appliances.
type Appliances struct {
	Oven           bool `json:"oven"`
	Microwave      bool `json:"microwave"`
	Toaster        bool `json:"toaster"`
	Blender        bool `json:"blender"`
	FoodProcessor  bool `json:"food_processor"`
	StandMixer     bool `json:"stand_mixer"`
	SlowCooker     bool `json:"slow_cooker"`
	PressureCooker bool `json:"pressure_cooker"`
	AirFryer       bool `json:"air_fryer"`
	Grill          bool `json:"grill"`
}

// PrepTools flags owned prep utensils. Cutting boards are counted.
type PrepTools struct {
	CuttingBoards   int  `json:"cutting_boards"`
	MixingBowls     bool `json:"mixing_bowls"`
	Colander        bool `json:"colander"`
	MeasuringCups   bool `json:"measuring_cups"`
	RollingPin      bool `json:"rolling_pin"`
	Whisk           bool `json:"whisk"`
	Tongs           bool `json:"tongs"`
	Spatula         bool `json:"spatula"`
	Ladle           bool `json:"ladle"`
	Peeler          bool `json:"peeler"`
	Grater          bool `json:"grater"`
	MortarAndPestle bool `json:"mortar_and_pestle"`
}

// Specialty flags less common equipment.
type Specialty struct {
	Wok             bool `json:"wok"`
	DutchOven       bool `json:"dutch_oven"`
	CastIronSkillet bool `json:"cast_iron_skillet"`
	Griddle         bool `json:"griddle"`
	Steamer         bool `json:"steamer"`
	DeepFryer       bool `json:"deep_fryer"`
}
