package protocol

import "fmt"

// Category classifies a device by how its status payload is interpreted
// and which control commands it accepts.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryLight
	CategoryFan
	CategoryPlug
	CategoryThermostat
	CategorySensor
	CategoryRemote
)

// String returns the category name used in CLI output and MQTT topics
func (c Category) String() string {
	switch c {
	case CategoryLight:
		return "light"
	case CategoryFan:
		return "fan"
	case CategoryPlug:
		return "plug"
	case CategoryThermostat:
		return "thermostat"
	case CategorySensor:
		return "sensor"
	case CategoryRemote:
		return "remote"
	default:
		return "unknown"
	}
}

type deviceType struct {
	name     string
	category Category
}

// deviceTypes maps the 32-bit type identifier reported by the hub to a
// model name and category. Pure lookup data: an unknown type ID yields a
// synthesized name and CategoryUnknown, never an error.
var deviceTypes = map[uint32]deviceType{
	0x00010001: {"On/Off Light", CategoryLight},
	0x00010002: {"Dimmable Light", CategoryLight},
	0x00010003: {"Tunable White Light", CategoryLight},
	0x00010004: {"Recessed Downlight", CategoryLight},
	0x00010005: {"Light Strip", CategoryLight},
	0x00010101: {"Ceiling Fan", CategoryFan},
	0x00010102: {"Ceiling Fan with Light", CategoryFan},
	0x00010201: {"Smart Plug", CategoryPlug},
	0x00010202: {"Outdoor Plug", CategoryPlug},
	0x00010203: {"In-Wall Outlet", CategoryPlug},
	0x00020001: {"Thermostat", CategoryThermostat},
	0x00030001: {"Contact Sensor", CategorySensor},
	0x00030002: {"Motion Sensor", CategorySensor},
	0x00030003: {"Temperature/Humidity Sensor", CategorySensor},
	0x00040001: {"Wireless Dimmer Remote", CategoryRemote},
	0x00040002: {"4-Button Scene Remote", CategoryRemote},
}

// TypeName returns the model name for a type ID, or a synthesized
// "Unknown (0x…)" placeholder.
func TypeName(typeID uint32) string {
	if dt, ok := deviceTypes[typeID]; ok {
		return dt.name
	}
	return fmt.Sprintf("Unknown (0x%08X)", typeID)
}

// CategoryOf returns the category for a type ID, CategoryUnknown if the
// type is not in the table.
func CategoryOf(typeID uint32) Category {
	if dt, ok := deviceTypes[typeID]; ok {
		return dt.category
	}
	return CategoryUnknown
}
