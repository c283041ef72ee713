package hub

import (
	"context"

	"go.uber.org/zap"

	"github.com/muurk/hublink/internal/logging"
	"github.com/muurk/hublink/internal/protocol"
)

// Ping checks that the hub is alive.
func (c *Connection) Ping(ctx context.Context) error {
	pkt, err := c.command(ctx, protocol.BuildPingRequest())
	if err != nil {
		return err
	}
	return protocol.ParsePingResponse(pkt)
}

// FirmwareVersion returns the hub firmware version in dotted form.
func (c *Connection) FirmwareVersion(ctx context.Context) (string, error) {
	pkt, err := c.command(ctx, protocol.BuildFirmwareVersionRequest())
	if err != nil {
		return "", err
	}
	return protocol.ParseFirmwareVersionResponse(pkt)
}

// EnableJoin opens the hub's pairing window for the given number of
// seconds.
func (c *Connection) EnableJoin(ctx context.Context, seconds uint8) error {
	pkt, err := c.command(ctx, protocol.BuildJoinEnableRequest(seconds))
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdJoinEnable)
}

// DisableJoin closes the pairing window early.
func (c *Connection) DisableJoin(ctx context.Context) error {
	pkt, err := c.command(ctx, protocol.BuildJoinDisableRequest())
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdJoinDisable)
}

// SetCredentials stores the remote-access account on the hub.
func (c *Connection) SetCredentials(ctx context.Context, username, password string) error {
	frame, err := protocol.BuildCredentialsRequest(username, password)
	if err != nil {
		return err
	}
	pkt, err := c.command(ctx, frame)
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdCredentials)
}

// Discover asks the hub to enumerate the devices currently reachable on
// the mesh.
func (c *Connection) Discover(ctx context.Context) ([]protocol.Device, error) {
	pkt, err := c.command(ctx, protocol.BuildDeviceDiscoveryRequest())
	if err != nil {
		return nil, err
	}
	return protocol.ParseDeviceListResponse(pkt, protocol.CmdDeviceDiscovery)
}

// ListDevices returns the hub's device database.
func (c *Connection) ListDevices(ctx context.Context) ([]protocol.Device, error) {
	pkt, err := c.command(ctx, protocol.BuildDBListDeviceRequest())
	if err != nil {
		return nil, err
	}
	return protocol.ParseDeviceListResponse(pkt, protocol.CmdDBListDevice)
}

// ListDevicesFull returns the device database including MAC addresses.
func (c *Connection) ListDevicesFull(ctx context.Context) ([]protocol.Device, error) {
	pkt, err := c.command(ctx, protocol.BuildDBListDeviceFullRequest())
	if err != nil {
		return nil, err
	}
	return protocol.ParseDBListDeviceFullResponse(pkt)
}

// Status queries the current state of the given devices. With no
// addresses the broadcast address is used and every device reports.
func (c *Connection) Status(ctx context.Context, addrs ...uint16) ([]protocol.Device, error) {
	pkt, err := c.command(ctx, protocol.BuildDeviceStatusRequest(addrs...))
	if err != nil {
		return nil, err
	}
	return protocol.ParseDeviceStatusResponse(pkt)
}

// SetPower switches the given devices on or off.
func (c *Connection) SetPower(ctx context.Context, on bool, addrs ...uint16) error {
	pkt, err := c.command(ctx, protocol.BuildDeviceSwitchRequest(on, addrs))
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdDeviceSwitch)
}

// SetBrightness dims the given lights to level. A single address uses
// the unicast command, several the batch variant.
func (c *Connection) SetBrightness(ctx context.Context, level uint8, addrs ...uint16) error {
	var frame []byte
	want := protocol.CmdLightDim
	if len(addrs) == 1 {
		frame = protocol.BuildLightDimRequest(level, addrs[0])
	} else {
		frame = protocol.BuildLightDimBatchRequest(level, addrs)
		want = protocol.CmdLightDimBatch
	}
	pkt, err := c.command(ctx, frame)
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, want)
}

// SetColorTemperature sets the color temperature of the given lights,
// in mireds.
func (c *Connection) SetColorTemperature(ctx context.Context, mireds uint16, addrs ...uint16) error {
	var frame []byte
	want := protocol.CmdLightTemperature
	if len(addrs) == 1 {
		frame = protocol.BuildLightTemperatureRequest(mireds, addrs[0])
	} else {
		frame = protocol.BuildLightTemperatureBatchRequest(mireds, addrs)
		want = protocol.CmdLightTemperatureBatch
	}
	pkt, err := c.command(ctx, frame)
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, want)
}

// SetFanSpeed sets a fan's speed step.
func (c *Connection) SetFanSpeed(ctx context.Context, speed uint8, addr uint16) error {
	pkt, err := c.command(ctx, protocol.BuildFanControlRequest(speed, addr))
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdFanControl)
}

// AddDevice registers a device by MAC address in the hub database and
// returns the short address it was assigned.
func (c *Connection) AddDevice(ctx context.Context, mac [protocol.MACLength]byte) (uint16, error) {
	pkt, err := c.command(ctx, protocol.BuildDBAddDeviceRequest(mac))
	if err != nil {
		return 0, err
	}
	return protocol.ParseDBAddDeviceResponse(pkt)
}

// RemoveDevice deletes a device from the hub database.
func (c *Connection) RemoveDevice(ctx context.Context, addr uint16) error {
	pkt, err := c.command(ctx, protocol.BuildDBRemoveDeviceRequest(addr))
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdDBRemoveDevice)
}

// ListGroups returns the IDs of all groups defined on the hub.
func (c *Connection) ListGroups(ctx context.Context) ([]uint16, error) {
	pkt, err := c.command(ctx, protocol.BuildGroupListRequest())
	if err != nil {
		return nil, err
	}
	return protocol.ParseGroupListResponse(pkt)
}

// ReadGroup returns the membership of one group.
func (c *Connection) ReadGroup(ctx context.Context, groupID uint16) (*protocol.Group, error) {
	pkt, err := c.command(ctx, protocol.BuildGroupReadRequest(groupID))
	if err != nil {
		return nil, err
	}
	return protocol.ParseGroupReadResponse(pkt)
}

// CreateGroup creates a group with the given members and returns the ID
// the hub assigned.
func (c *Connection) CreateGroup(ctx context.Context, members []uint16) (uint16, error) {
	pkt, err := c.command(ctx, protocol.BuildGroupCreateRequest(members))
	if err != nil {
		return 0, err
	}
	return protocol.ParseGroupCreateResponse(pkt)
}

// UpdateGroup replaces a group's membership.
func (c *Connection) UpdateGroup(ctx context.Context, groupID uint16, members []uint16) error {
	pkt, err := c.command(ctx, protocol.BuildGroupUpdateRequest(groupID, members))
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdGroupUpdate)
}

// DeleteGroup removes a group.
func (c *Connection) DeleteGroup(ctx context.Context, groupID uint16) error {
	pkt, err := c.command(ctx, protocol.BuildGroupDeleteRequest(groupID))
	if err != nil {
		return err
	}
	return protocol.ParseAckResponse(pkt, protocol.CmdGroupDelete)
}

// ResolveGroupMembership returns the set of device addresses that
// belong to at least one group. The resolution is best effort: if the
// group list itself cannot be fetched the set is empty, and a group
// whose read fails is logged and skipped rather than failing the whole
// resolution.
func (c *Connection) ResolveGroupMembership(ctx context.Context) (map[uint16]struct{}, error) {
	members := make(map[uint16]struct{})

	ids, err := c.ListGroups(ctx)
	if err != nil {
		logging.Warn("Group list unavailable, treating all devices as ungrouped", zap.Error(err))
		return members, nil
	}
	for _, id := range ids {
		g, err := c.ReadGroup(ctx, id)
		if err != nil {
			logging.Warn("Skipping unreadable group",
				zap.Uint16("group_id", id),
				zap.Error(err),
			)
			continue
		}
		for _, addr := range g.Members {
			members[addr] = struct{}{}
		}
	}
	return members, nil
}
