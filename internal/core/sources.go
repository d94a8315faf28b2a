package core

// Source keys used by discovery and the parser.
const (
	SourceDevice = "device"
	SourceData   = "data"
)

func init() {
	registerDeviceSource()
	registerDataSource()
}

func registerDeviceSource() {
	RegisterSource(SourceDefinition{
		Info: SourceInfo{
			Key:     SourceDevice,
			Label:   "device file",
			Pattern: "Device",
		},
		FieldSpecs: []FieldSpec{
			{Name: "Device Id", Type: FieldInteger},
			{Name: "Device Name", Type: FieldText},
			{Name: "Location", Type: FieldText},
		},
		BuildRecord: func(cells []string) any {
			return Device{
				ID:       int(ToPgInt4(CleanCell(cells[0])).Int32),
				Name:     ToPgText(CleanCell(cells[1])).String,
				Location: ToPgText(CleanCell(cells[2])).String,
			}
		},
	})
}

func registerDataSource() {
	RegisterSource(SourceDefinition{
		Info: SourceInfo{
			Key:     SourceData,
			Label:   "data file",
			Pattern: "Data",
		},
		FieldSpecs: []FieldSpec{
			{Name: "Device Id", Type: FieldInteger},
			{Name: "Date", Type: FieldTimestamp},
			{Name: "Volume", Type: FieldInteger},
		},
		BuildRecord: func(cells []string) any {
			return Reading{
				DeviceID:  int(ToPgInt4(CleanCell(cells[0])).Int32),
				Timestamp: ToPgTimestamp(CleanCell(cells[1])).Time,
				Volume:    int(ToPgInt4(CleanCell(cells[2])).Int32),
			}
		},
	})
}
