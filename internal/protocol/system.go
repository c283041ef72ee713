package protocol

import "fmt"

// System command codecs: gateway identifier, ping, firmware version,
// pairing mode and hub credentials.

// GatewayIDLength is the size of the hub identifier the gateway reports
const GatewayIDLength = 6

// BuildGatewayIDRequest frames the identifier request. This is the only
// exchange sent in the clear: its response seeds the session key.
func BuildGatewayIDRequest() []byte {
	return EncodeFrame(CmdGatewayID, nil, 0, true)
}

// ParseGatewayIDResponse extracts the 6-byte hub identifier.
func ParseGatewayIDResponse(p *Packet) ([]byte, error) {
	if err := expectCommand(p, CmdGatewayID); err != nil {
		return nil, err
	}
	if len(p.Data) < GatewayIDLength {
		return nil, fmt.Errorf("gateway ID payload is %d bytes: %w",
			len(p.Data), ErrIncomplete)
	}
	id := make([]byte, GatewayIDLength)
	copy(id, p.Data[:GatewayIDLength])
	return id, nil
}

// BuildPingRequest frames a keep-alive ping.
func BuildPingRequest() []byte {
	return EncodeFrame(CmdPing, nil, 0, true)
}

// ParsePingResponse validates a ping echo. The payload is empty.
func ParsePingResponse(p *Packet) error {
	return expectCommand(p, CmdPing)
}

// BuildFirmwareVersionRequest frames a firmware version query.
func BuildFirmwareVersionRequest() []byte {
	return EncodeFrame(CmdFirmwareVersion, nil, 0, true)
}

// ParseFirmwareVersionResponse decodes the 4-byte version quad into a
// dotted string.
func ParseFirmwareVersionResponse(p *Packet) (string, error) {
	if err := expectCommand(p, CmdFirmwareVersion); err != nil {
		return "", err
	}
	if len(p.Data) < 4 {
		return "", fmt.Errorf("firmware version payload is %d bytes: %w",
			len(p.Data), ErrIncomplete)
	}
	return fmt.Sprintf("%d.%d.%d.%d", p.Data[0], p.Data[1], p.Data[2], p.Data[3]), nil
}

// BuildJoinEnableRequest frames a pairing-mode enable for the given
// duration in seconds.
func BuildJoinEnableRequest(seconds uint8) []byte {
	return EncodeFrame(CmdJoinEnable, []byte{seconds}, 0, true)
}

// BuildJoinDisableRequest frames a pairing-mode disable.
func BuildJoinDisableRequest() []byte {
	return EncodeFrame(CmdJoinDisable, nil, 0, true)
}

// BuildCredentialsRequest frames a credentials update. Both strings are
// length-prefixed and limited to 255 bytes.
func BuildCredentialsRequest(username, password string) ([]byte, error) {
	if len(username) > 0xFF || len(password) > 0xFF {
		return nil, fmt.Errorf("credential longer than 255 bytes")
	}
	data := make([]byte, 0, 2+len(username)+len(password))
	data = append(data, byte(len(username)))
	data = append(data, username...)
	data = append(data, byte(len(password)))
	data = append(data, password...)
	return EncodeFrame(CmdCredentials, data, 0, true), nil
}
