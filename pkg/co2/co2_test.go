package co2

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDatasetIsValid(t *testing.T) {
	ds := SampleDataset()
	require.NoError(t, ds.Validate())

	assert.Equal(t, []string{"kanagawa", "osaka", "tokyo"}, ds.PrefectureIDs())
	assert.Equal(t, 7, ds.CityCount())

	tokyo, found := ds.Prefecture("tokyo")
	require.True(t, found)
	assert.Equal(t, []string{"minato", "shibuya", "shinjuku"}, tokyo.CityIDs())
	assert.Equal(t, int64(14_000_000), tokyo.Population)
}

func TestSampleDatasetReturnsFreshCopy(t *testing.T) {
	a := SampleDataset()
	b := SampleDataset()

	a.Prefectures["tokyo"].Name = "changed"
	delete(a.Prefectures["osaka"].Cities, "sakai")

	assert.Equal(t, "Tokyo", b.Prefectures["tokyo"].Name)
	_, found := b.City("osaka", "sakai")
	assert.True(t, found)
}

func TestLookups(t *testing.T) {
	ds := SampleDataset()

	c, found := ds.City("kanagawa", "yokohama")
	require.True(t, found)
	assert.Equal(t, "Yokohama", c.Name)

	_, found = ds.City("kanagawa", "shibuya")
	assert.False(t, found)
	_, found = ds.City("hokkaido", "sapporo")
	assert.False(t, found)
	_, found = ds.Prefecture("")
	assert.False(t, found)

	var nilDS *Dataset
	_, found = nilDS.Prefecture("tokyo")
	assert.False(t, found)
	assert.Empty(t, nilDS.PrefectureIDs())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(ds *Dataset)
		want   string
	}{
		{"missing name", func(ds *Dataset) { ds.Prefectures["tokyo"].Name = "" }, "tokyo: missing name"},
		{"negative reduction", func(ds *Dataset) { ds.Prefectures["osaka"].Reduction = -1 }, "osaka: negative reduction"},
		{"zero target", func(ds *Dataset) {
			c := ds.Prefectures["tokyo"].Cities["minato"]
			c.Target = 0
			ds.Prefectures["tokyo"].Cities["minato"] = c
		}, "tokyo/minato: target must be positive"},
		{"unknown status", func(ds *Dataset) { ds.Prefectures["kanagawa"].Status = "great" }, `kanagawa: unknown status "great"`},
		{"negative population", func(ds *Dataset) { ds.Prefectures["tokyo"].Population = -5 }, "tokyo: negative population"},
		{"empty city id", func(ds *Dataset) { ds.Prefectures["tokyo"].Cities[""] = Region{Name: "x", Target: 1, Status: StatusGood} }, "empty region id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := SampleDataset()
			tt.mutate(ds)

			err := ds.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDataset))
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	var nilDS *Dataset
	assert.ErrorIs(t, nilDS.Validate(), ErrInvalidDataset)
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		reduction float64
		want      Status
	}{
		{22.1, StatusExcellent},
		{20.0, StatusGood},
		{15.0, StatusGood},
		{14.9, StatusProgress},
		{10.0, StatusProgress},
		{9.9, StatusWarning},
		{5.0, StatusWarning},
		{4.9, StatusDanger},
		{0, StatusDanger},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveStatus(tt.reduction), "reduction %v", tt.reduction)
	}
}

func TestStoredStatusIsNotRecomputed(t *testing.T) {
	ds := SampleDataset()

	// The sample carries statuses that disagree with the legend bands.
	assert.Equal(t, []string{
		"kanagawa/kawasaki",
		"kanagawa/yokohama",
		"osaka",
		"osaka/sakai",
		"tokyo",
		"tokyo/shinjuku",
	}, ds.Inconsistent())

	c, _ := ds.City("tokyo", "shinjuku")
	assert.Equal(t, StatusWarning, c.Status)
	assert.False(t, c.StatusConsistent())
}

func TestProgress(t *testing.T) {
	tokyo, _ := SampleDataset().Prefecture("tokyo")
	assert.Equal(t, 76, tokyo.Progress())
	assert.InDelta(t, 76.0, tokyo.ProgressBar(), 0.001)

	over := Region{Reduction: 30, Target: 20}
	assert.Equal(t, 150, over.Progress())
	assert.Equal(t, 100.0, over.ProgressBar())

	assert.Equal(t, 0, Region{Reduction: 3}.Progress())
}

func TestJSONRoundTrip(t *testing.T) {
	ds := SampleDataset()

	js, err := ExportJSON(ds)
	require.NoError(t, err)

	imported, err := ImportJSON(js)
	require.NoError(t, err)

	if diff := cmp.Diff(ds, imported); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONRoundTripKeepsEmptyCities(t *testing.T) {
	ds := NewDataset()
	ds.Add(&Prefecture{
		Region: Region{ID: "tottori", Name: "Tottori", Reduction: 8, Target: 12, Status: StatusWarning},
		Cities: map[string]Region{},
	})

	js, err := ExportJSON(ds)
	require.NoError(t, err)
	imported, err := ImportJSON(js)
	require.NoError(t, err)

	if diff := cmp.Diff(ds, imported); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportJSONShape(t *testing.T) {
	js, err := ExportJSON(SampleDataset())
	require.NoError(t, err)

	var doc map[string]map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(js, &doc))

	tokyo := doc["prefectures"]["tokyo"]
	require.NotNil(t, tokyo)
	assert.Equal(t, "Tokyo", tokyo["name"])
	assert.Equal(t, 15.2, tokyo["reduction"])
	assert.Equal(t, 20.0, tokyo["target"])
	assert.Equal(t, "progress", tokyo["status"])
	assert.Equal(t, 14e6, tokyo["population"])
	assert.NotContains(t, tokyo, "ID")

	cities, ok := tokyo["cities"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, cities, 3)
	assert.Contains(t, cities, "shibuya")
}

func TestImportJSONErrors(t *testing.T) {
	_, err := ImportJSON([]byte(`{"prefectures": {`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidDataset))

	_, err = ImportJSON([]byte(`{"prefectures": {"tokyo": {"name": "Tokyo", "reduction": 1, "target": 0, "status": "good"}}}`))
	assert.ErrorIs(t, err, ErrInvalidDataset)

	_, err = ImportJSON([]byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalidDataset)
}

func TestImportJSONMetadata(t *testing.T) {
	doc := `{
  "prefectures": {
    "aichi": {
      "name": "Aichi", "reduction": 11, "target": 16, "status": "progress",
      "population": 7500000, "lastUpdated": "2024-01-15",
      "cities": {"nagoya": {"name": "Nagoya", "reduction": 12.5, "target": 18, "status": "progress", "population": 2300000}}
    }
  },
  "metadata": {"lastSync": "2024-01-15T10:00:00Z", "version": "1.0", "source": "Environmental Agency"}
}`
	ds, err := ImportJSON([]byte(doc))
	require.NoError(t, err)

	aichi, found := ds.Prefecture("aichi")
	require.True(t, found)
	assert.Equal(t, "aichi", aichi.ID)
	assert.Equal(t, "2024-01-15", aichi.LastUpdated)
	assert.Equal(t, "nagoya", aichi.Cities["nagoya"].ID)
	require.NotNil(t, ds.Metadata)
	assert.Equal(t, "Environmental Agency", ds.Metadata.Source)
}

func TestXLSXRoundTrip(t *testing.T) {
	ds := SampleDataset()

	var buf bytes.Buffer
	require.NoError(t, ExportXLSX(ds, &buf))

	imported, err := ImportXLSX(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(ds, imported); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestImportSpreadsheetErrors(t *testing.T) {
	_, err := ImportXLSX(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestSheetBuilder(t *testing.T) {
	b := newSheetBuilder()
	rows := [][]string{
		SheetHeader,
		{"tokyo", "shibuya", "Shibuya", "18.5", "25", "good", ""},
		{"tokyo", "", "Tokyo", "15.2", "20", "progress", "14,000,000"},
		{},
	}
	for _, r := range rows {
		require.NoError(t, b.add(r))
	}
	ds, err := b.finish()
	require.NoError(t, err)

	tokyo, _ := ds.Prefecture("tokyo")
	assert.Equal(t, int64(14_000_000), tokyo.Population)
	assert.Equal(t, "Shibuya", tokyo.Cities["shibuya"].Name)

	b = newSheetBuilder()
	assert.Error(t, b.add([]string{"name", "reduction"}))

	b = newSheetBuilder()
	require.NoError(t, b.add(SheetHeader))
	require.NoError(t, b.add([]string{"hokkaido", "sapporo", "Sapporo", "9", "15", "warning", "0"}))
	_, err = b.finish()
	assert.ErrorIs(t, err, ErrInvalidDataset)

	b = newSheetBuilder()
	require.NoError(t, b.add(SheetHeader))
	assert.Error(t, b.add([]string{"tokyo", "", "Tokyo", "lots", "20", "good", "1"}))

	b = newSheetBuilder()
	require.NoError(t, b.add(SheetHeader))
	assert.Error(t, b.add([]string{"tokyo", "", "Tokyo", "15.2", "20", "progress", "1.5"}))
}

func TestSheetBuilderRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{
			name: "prefecture",
			rows: [][]string{
				{"tokyo", "", "Tokyo", "15.2", "20", "progress", ""},
				{"tokyo", "shibuya", "Shibuya", "18.5", "25", "good", ""},
				{"tokyo", "", "Tokyo2", "15.2", "20", "progress", ""},
			},
			want: `line 4: duplicate prefecture "tokyo"`,
		},
		{
			name: "city",
			rows: [][]string{
				{"tokyo", "", "Tokyo", "15.2", "20", "progress", ""},
				{"tokyo", "shibuya", "Shibuya", "18.5", "25", "good", ""},
				{"tokyo", "shibuya", "Shibuya", "19", "25", "good", ""},
			},
			want: `line 4: duplicate city "tokyo/shibuya"`,
		},
		{
			name: "city before its prefecture",
			rows: [][]string{
				{"tokyo", "shibuya", "Shibuya", "18.5", "25", "good", ""},
				{"tokyo", "shibuya", "Shibuya", "19", "25", "good", ""},
			},
			want: `line 3: duplicate city "tokyo/shibuya"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newSheetBuilder()
			require.NoError(t, b.add(SheetHeader))

			var err error
			for _, r := range tt.rows {
				if err = b.add(r); err != nil {
					break
				}
			}
			assert.ErrorIs(t, err, ErrInvalidDataset)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", 0, false},
		{"-", 0, false},
		{"14,000,000", 14_000_000, false},
		{"9.2e6", 9_200_000, false},
		{"2300000.0", 2_300_000, false},
		{"1.5", 0, true},
		{"many", 0, true},
	}
	for _, tt := range tests {
		got, err := parseInt(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestExtractRowsFromXLS(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "float.xls"))
	require.NoError(t, err)
	defer f.Close()

	// The fixture has two rows; the last one holds a single cell.
	var rows [][]string
	require.NoError(t, extractRowsFromXLS(f, func(row []string) error {
		rows = append(rows, row)
		return nil
	}))
	require.Len(t, rows, 2)
	assert.NotEmpty(t, rows[0][0])
	assert.NotEmpty(t, rows[1][0])
}

func TestImportXLS(t *testing.T) {
	// Readable, but not in the export layout.
	_, err := ImportFile(filepath.Join("testdata", "float.xls"))
	assert.ErrorContains(t, err, "expected header")

	garbage := filepath.Join(t.TempDir(), "co2.xls")
	require.NoError(t, os.WriteFile(garbage, []byte("not a workbook"), 0644))
	_, err = ImportFile(garbage)
	assert.ErrorContains(t, err, "read xls")
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	ds := SampleDataset()

	for _, name := range []string{"co2.json", "co2.xlsx"} {
		file := filepath.Join(dir, name)
		require.NoError(t, ExportFile(ds, file))

		imported, err := ImportFile(file)
		require.NoError(t, err, name)
		if diff := cmp.Diff(ds, imported); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}

	assert.Error(t, ExportFile(ds, filepath.Join(dir, "co2.csv")))

	csv := filepath.Join(dir, "co2.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a,b"), 0644))
	_, err := ImportFile(csv)
	assert.Error(t, err)

	_, err = ImportFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestLoadIfExists(t *testing.T) {
	dir := t.TempDir()

	ds, found, err := LoadIfExists(filepath.Join(dir, "none.json"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, ds)

	file := filepath.Join(dir, "db.json")
	require.NoError(t, SampleDataset().Save(file))

	ds, found, err = LoadIfExists(file)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, ds.Prefectures, 3)

	require.NoError(t, os.WriteFile(file, []byte("{broken"), 0644))
	_, found, err = LoadIfExists(file)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "14,000,000", FormatPopulation(14_000_000))
	assert.Equal(t, "0", FormatPopulation(0))
	assert.Equal(t, "15.2%", FormatPercent(15.2))
}

func TestStatusLabels(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid())
		assert.NotEqual(t, "Unknown", s.Label())
	}
	assert.False(t, Status("").Valid())
	assert.Equal(t, "Unknown", Status("meh").Label())
}

func TestInfo(t *testing.T) {
	var buf bytes.Buffer
	SampleDataset().Info(&buf)
	assert.Contains(t, buf.String(), "Source       : built-in sample")
	assert.Contains(t, buf.String(), "Prefectures  : 3")
	assert.Contains(t, buf.String(), "Cities       : 7")

	ds := SampleDataset()
	ds.Metadata = &Metadata{Source: "Environmental Agency", Version: "1.0"}
	buf.Reset()
	ds.Info(&buf)
	assert.Contains(t, buf.String(), "Environmental Agency")
	assert.Contains(t, buf.String(), "Version      : 1.0")
}
