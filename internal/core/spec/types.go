package spec

import (
	"fmt"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// Shared enum domains. Resolution options are common to both camera
// variants; keep one source so a new sensor size lands everywhere.
var (
	resolutionDomain = []string{"2MP", "4MP", "5MP", "8MP"}
	ingressDomain    = []string{"IP66", "IP67"}
)

// definitionFor is the single source of per-type field sets. The
// switch is exhaustive over domain.TypeTags: adding a tag without an
// arm here panics at startup before any request is served.
func definitionFor(tag domain.TypeTag) SchemaDefinition {
	switch tag {
	case domain.TypeCCTVCamera:
		return SchemaDefinition{TypeTag: tag, Fields: []FieldDef{
			{Name: "resolution", Label: "Resolution", Required: true, Kind: KindEnum, Domain: resolutionDomain},
			{Name: "body_type", Label: "Body Type", Required: true, Kind: KindEnum, Domain: []string{"Dome", "Bullet", "Turret"}},
			{Name: "ir_range_m", Label: "IR Range", Required: true, Kind: KindInt, Unit: "m"},
			{Name: "lens_mm", Label: "Lens", Kind: KindNumber, Unit: "mm"},
			{Name: "ingress_rating", Label: "Ingress Rating", Kind: KindEnum, Domain: ingressDomain},
		}}

	case domain.TypeWiFiCamera:
		return SchemaDefinition{TypeTag: tag, Fields: []FieldDef{
			{Name: "resolution", Label: "Resolution", Required: true, Kind: KindEnum, Domain: resolutionDomain},
			{Name: "wireless_band", Label: "Wireless Band", Required: true, Kind: KindEnum, Domain: []string{"2.4GHz", "5GHz", "Dual Band"}},
			{Name: "storage_medium", Label: "Storage", Kind: KindEnum, Domain: []string{"Cloud", "SD Card", "NVR"}, Default: "SD Card"},
			{Name: "two_way_audio", Label: "Two-Way Audio", Kind: KindBool, Default: false},
			{Name: "pan_tilt", Label: "Pan/Tilt", Kind: KindBool},
		}}

	case domain.TypeRecorder:
		return SchemaDefinition{TypeTag: tag, Fields: []FieldDef{
			{Name: "recorder_kind", Label: "Recorder Kind", Required: true, Kind: KindEnum, Domain: []string{"DVR", "NVR"}},
			{Name: "channel_count", Label: "Channels", Required: true, Kind: KindEnum, Domain: []string{"4", "8", "16", "32"}},
			{Name: "compression", Label: "Compression", Kind: KindEnum, Domain: []string{"H.264", "H.265"}, Default: "H.265"},
			{Name: "max_storage_tb", Label: "Max Storage", Kind: KindInt, Unit: "TB"},
		}}

	case domain.TypeCable:
		return SchemaDefinition{TypeTag: tag, Fields: []FieldDef{
			{Name: "length_m", Label: "Length", Required: true, Kind: KindNumber, Unit: "m"},
			{Name: "conductor", Label: "Conductor", Required: true, Kind: KindEnum, Domain: []string{"Copper", "CCA"}},
			{Name: "cable_kind", Label: "Cable Kind", Required: true, Kind: KindEnum, Domain: []string{"Coaxial", "Cat6", "Cat5e"}},
		}}

	case domain.TypePowerSupply:
		return SchemaDefinition{TypeTag: tag, Fields: []FieldDef{
			{Name: "output_voltage", Label: "Output Voltage", Required: true, Kind: KindEnum, Domain: []string{"12V", "24V", "48V"}},
			{Name: "output_amps", Label: "Output Current", Required: true, Kind: KindNumber, Unit: "A"},
			{Name: "channel_count", Label: "Channels", Kind: KindEnum, Domain: []string{"1", "4", "8", "16"}},
		}}

	default:
		panic(fmt.Sprintf("spec: no schema definition for type tag %q", tag))
	}
}
