package classify

// Default keyword tiers for the text-inferred General dimensions.
// Each table is ordered highest score first; the first matching tier wins.

// DemographicTiers scores how well the surrounding population matches
// the target buyer profile.
var DemographicTiers = []Tier{
	{Score: 5, Keywords: []string{"excellent", "perfect", "ideal"}},
	{Score: 4, Keywords: []string{"good", "strong", "young professional"}},
	{Score: 3, Keywords: []string{"moderate", "mixed", "average"}},
	{Score: 2, Keywords: []string{"weak", "poor fit", "limited"}},
	{Score: 1, Keywords: []string{"wrong", "mismatch", "no fit"}},
}

// CompetitionTiers scores nearby competing machines or retail.
// Less competition scores higher.
var CompetitionTiers = []Tier{
	{Score: 5, Keywords: []string{"none", "zero", "no competition"}},
	{Score: 4, Keywords: []string{"low", "minimal", "little"}},
	{Score: 3, Keywords: []string{"moderate", "some"}},
	{Score: 2, Keywords: []string{"high", "strong", "several"}},
	{Score: 1, Keywords: []string{"very high", "intense", "saturated"}},
}

// VisibilityTiers scores how visible the machine placement spot is.
var VisibilityTiers = []Tier{
	{Score: 5, Keywords: []string{"excellent", "prime", "main entrance"}},
	{Score: 4, Keywords: []string{"good", "high visibility", "lobby"}},
	{Score: 3, Keywords: []string{"moderate", "decent", "side"}},
	{Score: 2, Keywords: []string{"poor", "low visibility", "back"}},
	{Score: 1, Keywords: []string{"hidden", "basement", "no visibility"}},
}

// SecurityTiers scores theft/vandalism risk at the site.
var SecurityTiers = []Tier{
	{Score: 5, Keywords: []string{"excellent", "24/7 security", "guarded"}},
	{Score: 4, Keywords: []string{"good", "cameras", "secure"}},
	{Score: 3, Keywords: []string{"moderate", "average"}},
	{Score: 2, Keywords: []string{"poor", "unmonitored", "concerns"}},
	{Score: 1, Keywords: []string{"unsafe", "vandalism", "high crime"}},
}

// ParkingTransitTiers scores restock access for route drivers.
var ParkingTransitTiers = []Tier{
	{Score: 5, Keywords: []string{"excellent", "loading dock", "dedicated"}},
	{Score: 4, Keywords: []string{"good", "ample", "easy access"}},
	{Score: 3, Keywords: []string{"moderate", "street parking"}},
	{Score: 2, Keywords: []string{"limited", "difficult", "paid only"}},
	{Score: 1, Keywords: []string{"none", "no parking", "no access"}},
}

// QualityTiers is the generic table used for module sub-metrics whose
// notes describe quality in plain terms.
var QualityTiers = []Tier{
	{Score: 5, Keywords: []string{"excellent", "outstanding", "ideal"}},
	{Score: 4, Keywords: []string{"good", "strong", "solid"}},
	{Score: 3, Keywords: []string{"moderate", "average", "okay", "adequate"}},
	{Score: 2, Keywords: []string{"poor", "weak", "limited"}},
	{Score: 1, Keywords: []string{"terrible", "none", "unusable"}},
}

// AmenityTiers scores adjacent foot-traffic drivers (gyms, cafes, transit).
var AmenityTiers = []Tier{
	{Score: 5, Keywords: []string{"excellent", "many", "major anchor"}},
	{Score: 4, Keywords: []string{"good", "several", "gym"}},
	{Score: 3, Keywords: []string{"moderate", "some", "a few"}},
	{Score: 2, Keywords: []string{"few", "limited", "sparse"}},
	{Score: 1, Keywords: []string{"none", "isolated", "nothing nearby"}},
}
