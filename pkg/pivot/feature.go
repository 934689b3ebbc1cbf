package pivot

// Face is the closed enum of profile faces a feature can be attached to.
type Face int

const (
	FaceUnknown Face = iota
	FaceWeb
	FaceTopFlange
	FaceBottomFlange
	FaceFront
)

func (f Face) String() string {
	switch f {
	case FaceWeb:
		return "WEB"
	case FaceTopFlange:
		return "TOP_FLANGE"
	case FaceBottomFlange:
		return "BOTTOM_FLANGE"
	case FaceFront:
		return "FRONT"
	default:
		return "UNKNOWN"
	}
}

// FaceFromDSTVCode maps the DSTV face suffix letter to Face:
// v -> WEB, o -> TOP_FLANGE, u -> BOTTOM_FLANGE, h -> FRONT.
// A missing/unrecognised indicator defaults to WEB.
func FaceFromDSTVCode(code string) Face {
	switch code {
	case "v":
		return FaceWeb
	case "o":
		return FaceTopFlange
	case "u":
		return FaceBottomFlange
	case "h":
		return FaceFront
	default:
		return FaceWeb
	}
}

// Kind is the closed taxonomy of feature kinds.
type Kind int

const (
	KindUnknown Kind = iota
	KindHole
	KindSlottedHole
	KindThread
	KindOuterContour
	KindInnerContour
	KindEndCut
	KindNotch
	KindMarking
	KindPunch
	KindChamfer
	KindGroove
	KindHeatTreatArea
)

func (k Kind) String() string {
	switch k {
	case KindHole:
		return "HOLE"
	case KindSlottedHole:
		return "SLOTTED_HOLE"
	case KindThread:
		return "THREAD"
	case KindOuterContour:
		return "OUTER_CONTOUR"
	case KindInnerContour:
		return "INNER_CONTOUR"
	case KindEndCut:
		return "END_CUT"
	case KindNotch:
		return "NOTCH"
	case KindMarking:
		return "MARKING"
	case KindPunch:
		return "PUNCH"
	case KindChamfer:
		return "CHAMFER"
	case KindGroove:
		return "GROOVE"
	case KindHeatTreatArea:
		return "HEAT_TREAT_AREA"
	default:
		return "UNKNOWN"
	}
}

// Point2D is a face-local coordinate: the first axis runs along the part's
// length from its start, the second along the face.
type Point2D struct {
	X float64
	Y float64
}

// ContourVertex is one vertex of an AK/IK/KA polyline, with an optional
// bulge factor (tan(Δangle/4)) marking it as the start of an arc segment
// rather than a straight edge to the next vertex.
type ContourVertex struct {
	Point2D
	Bulge float64
}

// Source pins a feature back to the line/column it was parsed from, for
// diagnostics.
type Source struct {
	Line   int
	Column int
}

// Feature is a tagged-variant envelope, uniform across kinds:
// {id, kind, face, local position, parameters, source}, with Params holding
// the kind-specific payload (see the Params* types below).
type Feature struct {
	ID       string
	Kind     Kind
	Face     Face
	Position Point2D
	Params   any
	Source   Source
}

// ParamsHole is the Params payload for KindHole.
type ParamsHole struct {
	Diameter float64
	Through  bool
	Depth    float64 // meaningful only when !Through
}

// ParamsSlottedHole is the Params payload for KindSlottedHole.
type ParamsSlottedHole struct {
	Diameter  float64
	SlotLen   float64
	SlotAngle float64 // degrees, from the face's first axis
}

// ThreadHandedness is the closed enum for ParamsThread.Handedness.
type ThreadHandedness int

const (
	HandednessRight ThreadHandedness = iota
	HandednessLeft
)

func (h ThreadHandedness) String() string {
	if h == HandednessLeft {
		return "left"
	}
	return "right"
}

// ParamsThread is the Params payload for KindThread. HostHoleID links it to
// the HOLE feature it annotates; a THREAD always follows its hosting HOLE in
// declared order.
type ParamsThread struct {
	HostHoleID string
	Diameter   float64
	Pitch      float64
	Depth      float64
	Handedness ThreadHandedness
	Class      string
	Standard   string
}

// ParamsContour is the Params payload for KindOuterContour and
// KindInnerContour. INNER_CONTOUR is always interpreted as a through cut.
type ParamsContour struct {
	Vertices []ContourVertex
}

// EndCutReference selects which end of the part an END_CUT targets.
type EndCutReference int

const (
	EndCutStart EndCutReference = iota
	EndCutEnd
)

// ParamsEndCut is the Params payload for KindEndCut.
type ParamsEndCut struct {
	Reference  EndCutReference
	AngleX     float64 // degrees, rotation about the face's first axis
	AngleY     float64 // degrees, rotation about the face's second axis
	BevelType  string
}

// ParamsNotch is the Params payload for KindNotch.
type ParamsNotch struct {
	Width     float64
	Depth     float64
	VShaped   bool
}

// MarkingMethod is the closed enum for ParamsMarking.Method.
type MarkingMethod int

const (
	MarkingEngrave MarkingMethod = iota
	MarkingStamp
	MarkingLaser
	MarkingPaint
)

func (m MarkingMethod) String() string {
	switch m {
	case MarkingStamp:
		return "stamp"
	case MarkingLaser:
		return "laser"
	case MarkingPaint:
		return "paint"
	default:
		return "engrave"
	}
}

// ParamsMarking is the Params payload for KindMarking.
type ParamsMarking struct {
	Text     string
	Height   float64
	Rotation float64
	Depth    float64
	Method   MarkingMethod
}

// ParamsPunch is the Params payload for KindPunch.
type ParamsPunch struct {
	Force float64
	Depth float64
}

// ParamsChamfer is the Params payload for KindChamfer.
type ParamsChamfer struct {
	EdgeLocator string
	Angle       float64 // degrees, default 45
	Size        float64
}

// ParamsGroove is the Params payload for KindGroove.
type ParamsGroove struct {
	Start Point2D
	End   Point2D
	Width float64
	Depth float64
}

// ParamsHeatTreatArea is the Params payload for KindHeatTreatArea.
type ParamsHeatTreatArea struct {
	Polygon   []Point2D
	Method    string
	Intensity float64
}
