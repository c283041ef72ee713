package protocol

import (
	"encoding/binary"
	"errors"
	"testing"
)

// respond builds a decoded response packet the way the hub would frame it.
func respond(t *testing.T, cmd CommandID, data []byte, listLen uint16) *Packet {
	t.Helper()
	pkt, err := DecodeFrame(EncodeFrame(cmd, data, listLen, false))
	if err != nil {
		t.Fatalf("building response packet: %v", err)
	}
	return pkt
}

func TestParseRejectsUnexpectedCommand(t *testing.T) {
	pkt := respond(t, CmdPing, nil, 0)

	if _, err := ParseGatewayIDResponse(pkt); !errors.Is(err, ErrUnexpectedCommand) {
		t.Errorf("ParseGatewayIDResponse error = %v, want ErrUnexpectedCommand", err)
	}
	if _, err := ParseDeviceStatusResponse(pkt); !errors.Is(err, ErrUnexpectedCommand) {
		t.Errorf("ParseDeviceStatusResponse error = %v, want ErrUnexpectedCommand", err)
	}
	if err := ParseAckResponse(pkt, CmdDeviceSwitch); !errors.Is(err, ErrUnexpectedCommand) {
		t.Errorf("ParseAckResponse error = %v, want ErrUnexpectedCommand", err)
	}
}

func TestParseGatewayIDResponse(t *testing.T) {
	id := []byte{0x00, 0x12, 0x4B, 0x32, 0x89, 0xBB}
	pkt := respond(t, CmdGatewayID, id, 0)

	got, err := ParseGatewayIDResponse(pkt)
	if err != nil {
		t.Fatalf("ParseGatewayIDResponse failed: %v", err)
	}
	for i := range id {
		if got[i] != id[i] {
			t.Fatalf("identifier = %x, want %x", got, id)
		}
	}
}

func TestParseFirmwareVersionResponse(t *testing.T) {
	pkt := respond(t, CmdFirmwareVersion, []byte{1, 4, 2, 17}, 0)

	version, err := ParseFirmwareVersionResponse(pkt)
	if err != nil {
		t.Fatalf("ParseFirmwareVersionResponse failed: %v", err)
	}
	if version != "1.4.2.17" {
		t.Errorf("version = %q, want %q", version, "1.4.2.17")
	}
}

func TestParseAckResponse(t *testing.T) {
	if err := ParseAckResponse(respond(t, CmdDeviceSwitch, []byte{0x00}, 0), CmdDeviceSwitch); err != nil {
		t.Errorf("zero status should succeed, got %v", err)
	}
	if err := ParseAckResponse(respond(t, CmdDeviceSwitch, nil, 0), CmdDeviceSwitch); err != nil {
		t.Errorf("empty ack should succeed, got %v", err)
	}
	err := ParseAckResponse(respond(t, CmdDeviceSwitch, []byte{0x02}, 0), CmdDeviceSwitch)
	if !errors.Is(err, ErrCommandRejected) {
		t.Errorf("non-zero status error = %v, want ErrCommandRejected", err)
	}
}

func statusEntry(addr uint16, typeID uint32, state []byte) []byte {
	entry := binary.BigEndian.AppendUint16(nil, addr)
	entry = binary.BigEndian.AppendUint32(entry, typeID)
	entry = append(entry, byte(len(state)))
	return append(entry, state...)
}

func TestParseDeviceStatusResponse(t *testing.T) {
	var data []byte
	data = append(data, statusEntry(0x28CF, 0x00010002, []byte{0x01, 0x7F, 0x42})...) // dimmable light
	data = append(data, statusEntry(0x1111, 0x00010101, []byte{0x01, 0x03})...)       // fan
	data = append(data, statusEntry(0x2222, 0x00010201, []byte{0x00})...)             // plug
	data = append(data, statusEntry(0x3333, 0xDEADBEEF, []byte{0xAA, 0xBB, 0xCC, 0xDD})...)

	pkt := respond(t, CmdDeviceStatus, data, 4)
	devices, err := ParseDeviceStatusResponse(pkt)
	if err != nil {
		t.Fatalf("ParseDeviceStatusResponse failed: %v", err)
	}
	if len(devices) != 4 {
		t.Fatalf("decoded %d devices, want 4", len(devices))
	}

	light := devices[0]
	if light.Category != CategoryLight || !light.State.On ||
		light.State.Brightness != 0x7F || light.State.Temperature != 0x42 {
		t.Errorf("light state = %+v", light.State)
	}

	fan := devices[1]
	if fan.Category != CategoryFan || !fan.State.On || fan.State.Speed != 3 {
		t.Errorf("fan state = %+v", fan.State)
	}

	plug := devices[2]
	if plug.Category != CategoryPlug || plug.State.On {
		t.Errorf("plug state = %+v", plug.State)
	}

	unknown := devices[3]
	if unknown.Category != CategoryUnknown {
		t.Errorf("category = %v, want unknown", unknown.Category)
	}
	if len(unknown.State.Raw) != 4 || unknown.State.Raw[0] != 0xAA {
		t.Errorf("opaque state = %x", unknown.State.Raw)
	}
	if unknown.TypeName != "Unknown (0xDEADBEEF)" {
		t.Errorf("type name = %q", unknown.TypeName)
	}
}

func TestParseDeviceStatusResponseShortPayload(t *testing.T) {
	// listLen promises three entries but the payload only delivers one:
	// iteration stops early, no error.
	data := statusEntry(0x28CF, 0x00010201, []byte{0x01})
	pkt := respond(t, CmdDeviceStatus, data, 3)

	devices, err := ParseDeviceStatusResponse(pkt)
	if err != nil {
		t.Fatalf("ParseDeviceStatusResponse failed: %v", err)
	}
	if len(devices) != 1 {
		t.Errorf("decoded %d devices, want 1", len(devices))
	}
}

func TestParseDeviceListResponse(t *testing.T) {
	var data []byte
	data = binary.BigEndian.AppendUint16(data, 0x0A01)
	data = binary.BigEndian.AppendUint32(data, 0x00010001)
	data = binary.BigEndian.AppendUint16(data, 0x0A02)
	data = binary.BigEndian.AppendUint32(data, 0x00030002)

	pkt := respond(t, CmdDBListDevice, data, 2)
	devices, err := ParseDeviceListResponse(pkt, CmdDBListDevice)
	if err != nil {
		t.Fatalf("ParseDeviceListResponse failed: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("decoded %d devices, want 2", len(devices))
	}
	if devices[0].ShortAddress != 0x0A01 || devices[0].Category != CategoryLight {
		t.Errorf("first device = %+v", devices[0])
	}
	if devices[1].TypeName != "Motion Sensor" {
		t.Errorf("second device type = %q", devices[1].TypeName)
	}
	if devices[0].State != nil {
		t.Error("list entries must not carry live state")
	}
}

func TestParseDBListDeviceFullResponse(t *testing.T) {
	var data []byte
	data = binary.BigEndian.AppendUint16(data, 0x0A01)
	data = binary.BigEndian.AppendUint32(data, 0x00010201)
	data = append(data, 0x00, 0x17, 0x88, 0x01, 0x02, 0x03, 0x04, 0x05)

	pkt := respond(t, CmdDBListDeviceFull, data, 1)
	devices, err := ParseDBListDeviceFullResponse(pkt)
	if err != nil {
		t.Fatalf("ParseDBListDeviceFullResponse failed: %v", err)
	}
	if len(devices) != 1 {
		t.Fatalf("decoded %d devices, want 1", len(devices))
	}
	if devices[0].MACAddress != "00:17:88:01:02:03:04:05" {
		t.Errorf("mac = %q", devices[0].MACAddress)
	}
}

func TestGroupCodecs(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		var data []byte
		data = binary.BigEndian.AppendUint16(data, 0x0001)
		data = binary.BigEndian.AppendUint16(data, 0x0002)
		ids, err := ParseGroupListResponse(respond(t, CmdGroupList, data, 2))
		if err != nil {
			t.Fatalf("ParseGroupListResponse failed: %v", err)
		}
		if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
			t.Errorf("ids = %v", ids)
		}
	})

	t.Run("read", func(t *testing.T) {
		var data []byte
		data = binary.BigEndian.AppendUint16(data, 0x0001)
		data = binary.BigEndian.AppendUint16(data, 0x28CF)
		data = binary.BigEndian.AppendUint16(data, 0x28D0)
		g, err := ParseGroupReadResponse(respond(t, CmdGroupRead, data, 2))
		if err != nil {
			t.Fatalf("ParseGroupReadResponse failed: %v", err)
		}
		if g.ID != 1 || len(g.Members) != 2 || g.Members[1] != 0x28D0 {
			t.Errorf("group = %+v", g)
		}
	})

	t.Run("read invalid", func(t *testing.T) {
		data := binary.BigEndian.AppendUint16(nil, InvalidGroup)
		_, err := ParseGroupReadResponse(respond(t, CmdGroupRead, data, 0))
		if !errors.Is(err, ErrInvalidGroup) {
			t.Errorf("error = %v, want ErrInvalidGroup", err)
		}
	})

	t.Run("create", func(t *testing.T) {
		data := binary.BigEndian.AppendUint16(nil, 0x0005)
		id, err := ParseGroupCreateResponse(respond(t, CmdGroupCreate, data, 0))
		if err != nil {
			t.Fatalf("ParseGroupCreateResponse failed: %v", err)
		}
		if id != 5 {
			t.Errorf("id = %d, want 5", id)
		}
	})

	t.Run("create refused", func(t *testing.T) {
		data := binary.BigEndian.AppendUint16(nil, InvalidGroup)
		_, err := ParseGroupCreateResponse(respond(t, CmdGroupCreate, data, 0))
		if !errors.Is(err, ErrInvalidGroup) {
			t.Errorf("error = %v, want ErrInvalidGroup", err)
		}
	})

	t.Run("read request layout", func(t *testing.T) {
		pkt, err := DecodeFrame(BuildGroupReadRequest(0x0A0B))
		if err != nil {
			t.Fatalf("DecodeFrame failed: %v", err)
		}
		if pkt.Cmd != CmdGroupRead || len(pkt.Data) != 2 ||
			binary.BigEndian.Uint16(pkt.Data) != 0x0A0B {
			t.Errorf("packet = %s data=%x", pkt, pkt.Data)
		}
	})
}

func TestBuildDeviceStatusRequestBroadcast(t *testing.T) {
	pkt, err := DecodeFrame(BuildDeviceStatusRequest())
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	if pkt.ListLen != 1 {
		t.Errorf("listLen = %d, want 1", pkt.ListLen)
	}
	if binary.BigEndian.Uint16(pkt.Data) != BroadcastAddress {
		t.Errorf("address = 0x%04X, want broadcast", binary.BigEndian.Uint16(pkt.Data))
	}
}

func TestBuildCredentialsRequest(t *testing.T) {
	frame, err := BuildCredentialsRequest("admin", "hunter2")
	if err != nil {
		t.Fatalf("BuildCredentialsRequest failed: %v", err)
	}
	pkt, err := DecodeFrame(frame)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	want := append([]byte{5}, "admin"...)
	want = append(want, 7)
	want = append(want, "hunter2"...)
	if string(pkt.Data) != string(want) {
		t.Errorf("data = %x, want %x", pkt.Data, want)
	}
}
