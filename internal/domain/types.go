package domain

type Smartphone struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Image          string  `json:"image"`
	Brand          string  `json:"brand"`
	Price          float64 `json:"price"`
	ScreenDiagonal float64 `json:"screen_diagonal"`
	CamerasAmount  int     `json:"cameras_amount"`
}

// SmartphoneFields is a partial set of smartphone attributes. A nil field was
// not supplied by the caller and is left untouched on update.
type SmartphoneFields struct {
	Name           *string  `json:"name" validate:"omitnil,min=1,max=50"`
	Image          *string  `json:"image"`
	Brand          *string  `json:"brand" validate:"omitnil,min=1,max=50"`
	Price          *float64 `json:"price" validate:"omitnil,gte=0"`
	ScreenDiagonal *float64 `json:"screen_diagonal" validate:"omitnil,gte=0"`
	CamerasAmount  *int     `json:"cameras_amount" validate:"omitnil,gte=0"`
}

// Empty reports whether no field is set.
func (f SmartphoneFields) Empty() bool {
	return f.Name == nil && f.Image == nil && f.Brand == nil &&
		f.Price == nil && f.ScreenDiagonal == nil && f.CamerasAmount == nil
}
