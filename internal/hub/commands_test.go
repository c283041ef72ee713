package hub

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/muurk/hublink/internal/protocol"
)

func encodeAddrs(addrs ...uint16) []byte {
	data := make([]byte, 0, 2*len(addrs))
	for _, a := range addrs {
		data = binary.BigEndian.AppendUint16(data, a)
	}
	return data
}

func TestFirmwareVersion(t *testing.T) {
	h := newFakeHub(t)
	h.setHandler(func(p *protocol.Packet) []byte {
		if p.Cmd != protocol.CmdFirmwareVersion {
			t.Errorf("hub received %s, want FirmwareVersion", p.Cmd)
		}
		return protocol.EncodeFrame(protocol.CmdFirmwareVersion, []byte{2, 0, 11, 3}, 0, false)
	})
	c := connect(t, h)

	v, err := c.FirmwareVersion(context.Background())
	if err != nil {
		t.Fatalf("FirmwareVersion: %v", err)
	}
	if v != "2.0.11.3" {
		t.Errorf("version = %q, want 2.0.11.3", v)
	}
}

func TestSetPowerRejected(t *testing.T) {
	h := newFakeHub(t)
	h.setHandler(func(p *protocol.Packet) []byte {
		return protocol.EncodeFrame(p.Cmd, []byte{0x01}, 0, false)
	})
	c := connect(t, h)

	err := c.SetPower(context.Background(), true, 0x0028)
	if !errors.Is(err, protocol.ErrCommandRejected) {
		t.Errorf("SetPower = %v, want ErrCommandRejected", err)
	}
}

func TestSetBrightnessPicksBatchCommand(t *testing.T) {
	h := newFakeHub(t)
	seen := make(chan protocol.CommandID, 2)
	h.setHandler(func(p *protocol.Packet) []byte {
		seen <- p.Cmd
		return defaultReply(p)
	})
	c := connect(t, h)

	if err := c.SetBrightness(context.Background(), 0x80, 0x0001); err != nil {
		t.Fatalf("single SetBrightness: %v", err)
	}
	if got := <-seen; got != protocol.CmdLightDim {
		t.Errorf("single address sent %s, want LightDim", got)
	}

	if err := c.SetBrightness(context.Background(), 0x80, 0x0001, 0x0002); err != nil {
		t.Fatalf("batch SetBrightness: %v", err)
	}
	if got := <-seen; got != protocol.CmdLightDimBatch {
		t.Errorf("two addresses sent %s, want LightDimBatch", got)
	}
}

func TestAddDevice(t *testing.T) {
	h := newFakeHub(t)
	mac := [protocol.MACLength]byte{0x00, 0x17, 0x88, 0x01, 0x02, 0x03, 0x04, 0x05}
	h.setHandler(func(p *protocol.Packet) []byte {
		if p.Cmd != protocol.CmdDBAddDevice {
			t.Errorf("hub received %s, want DBAddDevice", p.Cmd)
		}
		return protocol.EncodeFrame(protocol.CmdDBAddDevice, encodeAddrs(0x0042), 0, false)
	})
	c := connect(t, h)

	addr, err := c.AddDevice(context.Background(), mac)
	if err != nil {
		t.Fatalf("AddDevice: %v", err)
	}
	if addr != 0x0042 {
		t.Errorf("assigned address = 0x%04X, want 0x0042", addr)
	}
}

func TestResolveGroupMembership(t *testing.T) {
	h := newFakeHub(t)
	h.setHandler(func(p *protocol.Packet) []byte {
		switch p.Cmd {
		case protocol.CmdGroupList:
			return protocol.EncodeFrame(protocol.CmdGroupList, encodeAddrs(1, 2), 2, false)
		case protocol.CmdGroupRead:
			id := binary.BigEndian.Uint16(p.Data)
			if id == 2 {
				// Group 2 cannot be read; it must be skipped.
				return protocol.EncodeFrame(protocol.CmdGroupRead,
					encodeAddrs(protocol.InvalidGroup), 0, false)
			}
			return protocol.EncodeFrame(protocol.CmdGroupRead,
				encodeAddrs(id, 0x0010, 0x0011), 2, false)
		default:
			return defaultReply(p)
		}
	})
	c := connect(t, h)

	members, err := c.ResolveGroupMembership(context.Background())
	if err != nil {
		t.Fatalf("ResolveGroupMembership: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("resolved %d members, want 2: %v", len(members), members)
	}
	for _, addr := range []uint16{0x0010, 0x0011} {
		if _, ok := members[addr]; !ok {
			t.Errorf("address 0x%04X missing from membership set", addr)
		}
	}
}

func TestResolveGroupMembershipListFailure(t *testing.T) {
	h := newFakeHub(t)
	h.setHandler(func(p *protocol.Packet) []byte {
		// Answer the group list with the wrong command so the parse
		// fails; resolution must degrade to an empty set, not an error.
		return protocol.EncodeFrame(protocol.CmdPing, nil, 0, false)
	})
	c := connect(t, h)

	members, err := c.ResolveGroupMembership(context.Background())
	if err != nil {
		t.Fatalf("ResolveGroupMembership: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("resolved %d members, want 0", len(members))
	}
}

func TestGroupLifecycle(t *testing.T) {
	h := newFakeHub(t)
	h.setHandler(func(p *protocol.Packet) []byte {
		switch p.Cmd {
		case protocol.CmdGroupCreate:
			return protocol.EncodeFrame(protocol.CmdGroupCreate, encodeAddrs(7), 0, false)
		case protocol.CmdGroupRead:
			return protocol.EncodeFrame(protocol.CmdGroupRead,
				encodeAddrs(7, 0x0001, 0x0002), 2, false)
		default:
			return defaultReply(p)
		}
	})
	c := connect(t, h)
	ctx := context.Background()

	id, err := c.CreateGroup(ctx, []uint16{0x0001, 0x0002})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if id != 7 {
		t.Errorf("group ID = %d, want 7", id)
	}

	g, err := c.ReadGroup(ctx, id)
	if err != nil {
		t.Fatalf("ReadGroup: %v", err)
	}
	if g.ID != 7 || len(g.Members) != 2 {
		t.Errorf("group = %+v, want ID 7 with 2 members", g)
	}

	if err := c.UpdateGroup(ctx, id, []uint16{0x0001}); err != nil {
		t.Errorf("UpdateGroup: %v", err)
	}
	if err := c.DeleteGroup(ctx, id); err != nil {
		t.Errorf("DeleteGroup: %v", err)
	}
}

func TestDiscoverAndList(t *testing.T) {
	h := newFakeHub(t)
	entry := append(encodeAddrs(0x0030), 0x00, 0x03, 0x00, 0x01)
	h.setHandler(func(p *protocol.Packet) []byte {
		switch p.Cmd {
		case protocol.CmdDeviceDiscovery, protocol.CmdDBListDevice:
			return protocol.EncodeFrame(p.Cmd, entry, 1, false)
		default:
			return defaultReply(p)
		}
	})
	c := connect(t, h)
	ctx := context.Background()

	for name, fn := range map[string]func(context.Context) ([]protocol.Device, error){
		"Discover":    c.Discover,
		"ListDevices": c.ListDevices,
	} {
		devs, err := fn(ctx)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(devs) != 1 || devs[0].ShortAddress != 0x0030 {
			t.Errorf("%s = %v, want one device at 0x0030", name, devs)
		}
	}
}
