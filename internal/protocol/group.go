package protocol

import (
	"encoding/binary"
	"fmt"
)

// Group is a virtual device: a hub-side set of member short addresses
// controlled as one unit. Members are kept in the order the hub reports
// them.
type Group struct {
	ID      uint16
	Members []uint16
}

// String returns a short human-readable group description
func (g Group) String() string {
	return fmt.Sprintf("group 0x%04X (%d members)", g.ID, len(g.Members))
}

// BuildGroupListRequest frames a listing of all group IDs.
func BuildGroupListRequest() []byte {
	return EncodeFrame(CmdGroupList, nil, 0, true)
}

// ParseGroupListResponse decodes the list of group IDs.
func ParseGroupListResponse(p *Packet) ([]uint16, error) {
	if err := expectCommand(p, CmdGroupList); err != nil {
		return nil, err
	}
	return decodeAddrList(p.Data, int(p.ListLen), 0), nil
}

// BuildGroupReadRequest frames a membership read for one group.
func BuildGroupReadRequest(groupID uint16) []byte {
	data := binary.BigEndian.AppendUint16(nil, groupID)
	return EncodeFrame(CmdGroupRead, data, 1, true)
}

// ParseGroupReadResponse decodes a group with its members. The payload
// leads with the group ID; ListLen counts members only.
func ParseGroupReadResponse(p *Packet) (*Group, error) {
	if err := expectCommand(p, CmdGroupRead); err != nil {
		return nil, err
	}
	if len(p.Data) < 2 {
		return nil, fmt.Errorf("group read payload is %d bytes: %w",
			len(p.Data), ErrIncomplete)
	}
	id := binary.BigEndian.Uint16(p.Data[:2])
	if id == InvalidGroup {
		return nil, fmt.Errorf("group read: %w", ErrInvalidGroup)
	}
	return &Group{
		ID:      id,
		Members: decodeAddrList(p.Data, int(p.ListLen), 2),
	}, nil
}

// BuildGroupCreateRequest frames creation of a group from member
// addresses. The hub assigns and returns the group ID.
func BuildGroupCreateRequest(members []uint16) []byte {
	data := appendAddrs(make([]byte, 0, 2*len(members)), members)
	return EncodeFrame(CmdGroupCreate, data, uint16(len(members)), true)
}

// ParseGroupCreateResponse extracts the assigned group ID. The reserved
// invalid ID signals that the hub refused the creation.
func ParseGroupCreateResponse(p *Packet) (uint16, error) {
	if err := expectCommand(p, CmdGroupCreate); err != nil {
		return 0, err
	}
	if len(p.Data) < 2 {
		return 0, fmt.Errorf("group create payload is %d bytes: %w",
			len(p.Data), ErrIncomplete)
	}
	id := binary.BigEndian.Uint16(p.Data[:2])
	if id == InvalidGroup {
		return 0, fmt.Errorf("group create: %w", ErrInvalidGroup)
	}
	return id, nil
}

// BuildGroupUpdateRequest frames a full membership replacement for an
// existing group.
func BuildGroupUpdateRequest(groupID uint16, members []uint16) []byte {
	data := binary.BigEndian.AppendUint16(make([]byte, 0, 2+2*len(members)), groupID)
	data = appendAddrs(data, members)
	return EncodeFrame(CmdGroupUpdate, data, uint16(len(members)), true)
}

// BuildGroupDeleteRequest frames a group deletion.
func BuildGroupDeleteRequest(groupID uint16) []byte {
	data := binary.BigEndian.AppendUint16(nil, groupID)
	return EncodeFrame(CmdGroupDelete, data, 1, true)
}

// decodeAddrList reads up to count 16-bit addresses starting at off,
// stopping early if the payload runs out.
func decodeAddrList(data []byte, count, off int) []uint16 {
	addrs := make([]uint16, 0, count)
	for i := 0; i < count; i++ {
		if off+2 > len(data) {
			break
		}
		addrs = append(addrs, binary.BigEndian.Uint16(data[off:off+2]))
		off += 2
	}
	return addrs
}
