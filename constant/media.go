package constant

// Clip extensions recognised by the built-in decoder engines.
const (
	ExtWAV = ".wav"
	ExtRaw = ".raw"
	ExtRGB = ".rgb"
	ExtVid = ".vid"
)

// Panel geometry of the reference display. The default decode buffer holds one
// RGB565 frame of this size.
const (
	PanelWidth     = 240
	PanelHeight    = 280
	BytesPerPixel  = 2
	PanelFrameSize = PanelWidth * PanelHeight * BytesPerPixel
)

// MaxBufferSize caps the decode buffer.
const MaxBufferSize = 64 << 20
