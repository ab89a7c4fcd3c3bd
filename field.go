package heritage

import "strings"

// Canonical field keys that are always present or derived.
const (
	KeyID       = "id"
	KeyTitle    = "title"
	KeySubtitle = "subtitle"
	KeyGPSX     = "gps_x"
	KeyGPSY     = "gps_y"
)

// Canonical keys of the labeled fields found on register detail pages.
const (
	KeyHistory          = "history"
	KeyCouncil          = "council"
	KeyConstructionDate = "construction_dates"
	KeyConstructionBy   = "construction_by"
	KeyCurrentUse       = "current_use"
	KeyDateRegistered   = "date_registered"
	KeyGPSRef           = "gps_ref"
	KeyNotableFeatures  = "notable_features"
	KeyOtherNames       = "other_names"
	KeyRegion           = "region"
	KeyRegisterNo       = "register_no"
	KeyRegistrationType = "registration_type"
	KeyFormerUses       = "former_uses"
	KeyOtherInfo        = "other_info"
	KeyNZAASiteNo       = "nzaa_site_no"
	KeyEntryBy          = "entry_by"
	KeyEntryCompleted   = "entry_completed"
	KeyLinks            = "links"
	KeyLocationDesc     = "location_desc"
	KeyStatusDesc       = "status_desc"
	KeyAreaDesc         = "area_desc"
)

// FieldMap maps lower-cased page labels, without the trailing colon, to
// canonical field keys. It is the single source of truth for which labels
// are understood. Labels missing from the map are reported, not guessed;
// grow the map when the register starts using new label text.
var FieldMap = map[string]string{
	"brief history":                              KeyHistory,
	"city/district council":                      KeyCouncil,
	"construction dates":                         KeyConstructionDate,
	"construction professionals":                 KeyConstructionBy,
	"current use":                                KeyCurrentUse,
	"date registered":                            KeyDateRegistered,
	"gps references":                             KeyGPSRef,
	"notable features":                           KeyNotableFeatures,
	"other names":                                KeyOtherNames,
	"region":                                     KeyRegion,
	"register number":                            KeyRegisterNo,
	"registration type":                          KeyRegistrationType,
	"former uses":                                KeyFormerUses,
	"other information":                          KeyOtherInfo,
	"nz archaeological association site number": KeyNZAASiteNo,
	"entry written by":                           KeyEntryBy,
	"entry completed":                            KeyEntryCompleted,
	"links":                                      KeyLinks,
	"location description":                       KeyLocationDesc,
	"status explanation":                         KeyStatusDesc,
	"area description":                           KeyAreaDesc,
}

// coordinateFields holds the keys whose values may carry an
// "Easting: ... Northing: ..." reference.
var coordinateFields = map[string]bool{
	KeyGPSRef:     true,
	KeyNZAASiteNo: true,
}

// MapField translates a raw page label into a canonical field key.
// Matching is exact after trimming whitespace, dropping one trailing colon
// and lower-casing, so "Region:", " region : " and "REGION" are equivalent.
// Returns false for labels that are not in FieldMap.
func MapField(label string) (string, bool) {
	key, ok := FieldMap[labelKey(label)]
	return key, ok
}

// IsCoordinateField reports whether values of the canonical key may carry
// a coordinate reference.
func IsCoordinateField(key string) bool {
	return coordinateFields[key]
}

// FieldKeys returns the canonical keys of FieldMap in a stable order.
func FieldKeys() []string {
	return []string{
		KeyHistory,
		KeyCouncil,
		KeyConstructionDate,
		KeyConstructionBy,
		KeyCurrentUse,
		KeyDateRegistered,
		KeyGPSRef,
		KeyNotableFeatures,
		KeyOtherNames,
		KeyRegion,
		KeyRegisterNo,
		KeyRegistrationType,
		KeyFormerUses,
		KeyOtherInfo,
		KeyNZAASiteNo,
		KeyEntryBy,
		KeyEntryCompleted,
		KeyLinks,
		KeyLocationDesc,
		KeyStatusDesc,
		KeyAreaDesc,
	}
}

// labelKey reduces a label to its FieldMap lookup form.
func labelKey(label string) string {
	s := strings.TrimSpace(label)
	s = strings.TrimSuffix(s, ":")
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}
