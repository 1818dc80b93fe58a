package predict

import "context"

// Detector submits one encoded image to an object-detection model.
type Detector interface {
	Predict(ctx context.Context, image []byte) (*Response, error)
}

// Response is the prediction result, in the order the service returned it.
type Response struct {
	Payload []Payload `json:"payload"`
}

// Payload is one annotation returned by the model.
type Payload struct {
	AnnotationSpecID     string           `json:"annotationSpecId,omitempty"`
	DisplayName          string           `json:"displayName,omitempty"`
	ImageObjectDetection *ObjectDetection `json:"imageObjectDetection,omitempty"`
}

type ObjectDetection struct {
	BoundingBox BoundingBox `json:"boundingBox"`
	Score       float64     `json:"score"`
}

// BoundingBox holds the top-left and bottom-right corners as fractions of
// the image size.
type BoundingBox struct {
	NormalizedVertices []Vertex `json:"normalizedVertices"`
}

// Vertex coordinates are pointers so that an omitted key is not read as 0.
type Vertex struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
}

// NewVertex is a convenience constructor for fully populated vertices.
func NewVertex(x, y float64) Vertex {
	return Vertex{X: &x, Y: &y}
}
