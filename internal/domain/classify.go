package domain

import "regexp"

// ClassificationRule binds a text pattern to an incident type and category.
type ClassificationRule struct {
	Pattern  *regexp.Regexp
	Type     string
	Category string
}

// Classification is the (type, category) pair produced by rule matching.
type Classification struct {
	Type     string
	Category string
}

// Classify scans rules in order and returns the first match, or fallback
// when no rule matches. Rule order is the tie-break: tables must list
// specific vocabulary before generic vocabulary.
func Classify(rules []ClassificationRule, text string, fallback Classification) Classification {
	for _, r := range rules {
		if r.Pattern.MatchString(text) {
			return Classification{Type: r.Type, Category: r.Category}
		}
	}
	return fallback
}

func rule(pattern, incidentType, category string) ClassificationRule {
	return ClassificationRule{
		Pattern:  regexp.MustCompile(`(?i)` + pattern),
		Type:     incidentType,
		Category: category,
	}
}

// ScannerRules classifies police/fire scanner chatter. Violence and weapon
// vocabulary precedes traffic vocabulary so that a shooting-related crash
// is filed as a shooting, not a crash.
var ScannerRules = []ClassificationRule{
	rule(`shooting|shots fired|gunshot`, "shooting", CategoryViolentCrime),
	rule(`stabbing|stabbed`, "stabbing", CategoryViolentCrime),
	rule(`armed robbery|robbery`, "robbery", CategoryViolentCrime),
	rule(`assault|battery`, "assault", CategoryViolentCrime),
	rule(`armed subject|weapon|gun call`, "weapons_call", CategoryWeapons),
	rule(`structure fire|house fire|building fire|fully involved`, "structure_fire", CategoryFire),
	rule(`brush fire|vehicle fire|fire`, "fire", CategoryFire),
	rule(`burglary|break[- ]?in`, "burglary", CategoryPropertyCrime),
	rule(`theft|stolen|shoplift`, "theft", CategoryPropertyCrime),
	rule(`vandalism|criminal damage`, "vandalism", CategoryPropertyCrime),
	rule(`crash|collision|rollover|pin[- ]?in|accident`, "crash", CategoryTraffic),
	rule(`dui|reckless driv`, "reckless_driving", CategoryTraffic),
	rule(`gas leak|hazmat|chemical spill|fuel spill`, "hazmat", CategoryHazard),
	rule(`missing person|silver alert|amber alert`, "missing_person", CategoryOther),
	rule(`overdose|ambulance|medical`, "medical", CategoryOther),
}

// ScannerDefault is the bucket for scanner chatter matching no rule.
var ScannerDefault = Classification{Type: "other", Category: CategoryOther}

// CountyNewsRules classifies county government press releases. The feed's
// vocabulary is civic rather than criminal, with the occasional sheriff's
// release mixed in, so crime vocabulary still sits at the top of the table.
var CountyNewsRules = []ClassificationRule{
	rule(`homicide|murder|shooting|stabbing`, "violent_crime", CategoryViolentCrime),
	rule(`arrest|charged|indicted|sentenced`, "arrest", CategoryOther),
	rule(`road closure|lane closure|detour|resurfacing|construction`, "road_closure", CategoryTraffic),
	rule(`boil order|water main|power outage|utility work`, "utility", CategoryHazard),
	rule(`election|referendum|ballot|polling`, "election", CategoryCivic),
	rule(`county board|village board|city council|ordinance|zoning`, "government", CategoryCivic),
	rule(`budget|tax levy|property tax|appropriation`, "budget", CategoryCivic),
	rule(`health department|vaccine|clinic|inspection`, "public_health", CategoryCivic),
	rule(`festival|parade|grand opening|ribbon cutting|community event`, "community_event", CategoryCivic),
}

// CountyNewsDefault files unmatched county items as plain announcements.
var CountyNewsDefault = Classification{Type: "announcement", Category: CategoryCivic}

// TrafficRules classifies DOT travel-event types and descriptions.
var TrafficRules = []ClassificationRule{
	rule(`crash|accident|collision|jackknife`, "crash", CategoryTraffic),
	rule(`road ?work|construction|maintenance|resurfacing`, "construction", CategoryTraffic),
	rule(`closure|closed|blocked`, "road_closure", CategoryTraffic),
	rule(`disabled vehicle|stalled`, "disabled_vehicle", CategoryTraffic),
	rule(`special event`, "special_event", CategoryTraffic),
}

// TrafficDefault covers event types the table does not recognize; the feed
// only carries road incidents, so the category stays traffic.
var TrafficDefault = Classification{Type: "traffic_incident", Category: CategoryTraffic}
