package protocol

import "fmt"

// CommandID identifies one hub command. The enumeration is closed: the
// hub silently drops frames carrying anything else.
type CommandID uint16

// Command table
const (
	CmdDeviceSwitch          CommandID = 0x0000
	CmdDeviceDiscovery       CommandID = 0x0001
	CmdDeviceStatus          CommandID = 0x0002
	CmdLightDim              CommandID = 0x0004
	CmdLightTemperature      CommandID = 0x0005
	CmdFanControl            CommandID = 0x0006
	CmdLightDimBatch         CommandID = 0x0008
	CmdLightTemperatureBatch CommandID = 0x0009
	CmdGatewayID             CommandID = 0x0010
	CmdPing                  CommandID = 0x0101
	CmdCredentials           CommandID = 0x0103
	CmdJoinEnable            CommandID = 0x0104
	CmdJoinDisable           CommandID = 0x0105
	CmdFirmwareVersion       CommandID = 0x0106
	CmdDBListDevice          CommandID = 0x0200
	CmdDBAddDevice           CommandID = 0x0201
	CmdDBRemoveDevice        CommandID = 0x0202
	CmdDBListDeviceFull      CommandID = 0x0203
	CmdGroupList             CommandID = 0x0400
	CmdGroupCreate           CommandID = 0x0401
	CmdGroupUpdate           CommandID = 0x0402
	CmdGroupRead             CommandID = 0x0403
	CmdGroupDelete           CommandID = 0x0404
)

var commandNames = map[CommandID]string{
	CmdDeviceSwitch:          "DeviceSwitch",
	CmdDeviceDiscovery:       "DeviceDiscovery",
	CmdDeviceStatus:          "DeviceStatus",
	CmdLightDim:              "LightDim",
	CmdLightTemperature:      "LightTemperature",
	CmdFanControl:            "FanControl",
	CmdLightDimBatch:         "LightDimBatch",
	CmdLightTemperatureBatch: "LightTemperatureBatch",
	CmdGatewayID:             "GatewayID",
	CmdPing:                  "Ping",
	CmdCredentials:           "Credentials",
	CmdJoinEnable:            "JoinEnable",
	CmdJoinDisable:           "JoinDisable",
	CmdFirmwareVersion:       "FirmwareVersion",
	CmdDBListDevice:          "DBListDevice",
	CmdDBAddDevice:           "DBAddDevice",
	CmdDBRemoveDevice:        "DBRemoveDevice",
	CmdDBListDeviceFull:      "DBListDeviceFull",
	CmdGroupList:             "GroupList",
	CmdGroupCreate:           "GroupCreate",
	CmdGroupUpdate:           "GroupUpdate",
	CmdGroupRead:             "GroupRead",
	CmdGroupDelete:           "GroupDelete",
}

// String returns a human-readable command name
func (c CommandID) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%04X)", uint16(c))
}
