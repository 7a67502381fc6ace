package boletos

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"boleto-service/internal/domain"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// parseBRLNumber: heurística robusta para entradas brasileiras/anglo
func parseBRLNumber(val string) (float64, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0.0, nil
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0.0, nil
	}

	// tratar sinais/parenteses
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}

	// localizar última ocorrência de . e , para decidir formato
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	if lastComma > lastDot {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if lastDot > lastComma {
		if strings.Count(s, ".") > 1 {
			parts := strings.Split(s, ".")
			decimalPart := parts[len(parts)-1]
			intPart := strings.Join(parts[:len(parts)-1], "")
			s = intPart + "." + decimalPart
		}
	} else {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	// remover quaisquer caracteres que não sejam dígitos ou ponto residual
	filtered := []rune{}
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			filtered = append(filtered, r)
		}
	}
	s = string(filtered)
	if s == "" {
		return 0.0, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0, err
	}
	if neg {
		f = -f
	}
	return mathRound(f, 2), nil
}

// loadGenericExcel lê todas as linhas da primeira planilha de um arquivo
// .xlsx ou .xls, tentando excelize primeiro e xlsReader em seguida.
func loadGenericExcel(file io.Reader) ([][]string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	reader := bytes.NewReader(data)

	// tenta xlsx
	f, err := excelize.OpenReader(reader)
	if err == nil {
		defer f.Close()
		sheetName := f.GetSheetList()[0]
		return f.GetRows(sheetName)
	}

	// tenta xls
	reader.Seek(0, io.SeekStart)
	workbook, err := xls.OpenReader(reader)
	if err == nil {
		if len(workbook.GetSheets()) > 0 {
			sheet, err := workbook.GetSheet(0)
			if err != nil {
				return nil, fmt.Errorf("erro ao obter planilha do arquivo .xls: %w", err)
			}
			var allRows [][]string
			for _, row := range sheet.GetRows() {
				var cells []string
				for _, cell := range row.GetCols() {
					cells = append(cells, cell.GetString())
				}
				allRows = append(allRows, cells)
			}
			return allRows, nil
		}
		return nil, fmt.Errorf("o arquivo .xls não contém planilhas")
	}

	return nil, fmt.Errorf("unsupported workbook file format")
}

func excelSerialToDate(serial float64) time.Time {
	// base Excel serial -> 1899-12-30
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	frac := serial - float64(int64(serial))
	duration := time.Duration(int64(serial)*24) * time.Hour
	duration += time.Duration(frac * 24 * float64(time.Hour))
	return base.Add(duration)
}

// parseDateDayFirst tenta interpretar a célula como data dd/mm/aaaa,
// ISO ou serial de Excel (intervalo plausível 1995..2028).
func parseDateDayFirst(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if t, err := time.Parse("02/01/2006", s); err == nil {
		return t.Format("02/01/2006"), true
	}
	if len(s) >= 10 {
		if t, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return t.Format("02/01/2006"), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f > 35000 && f < 47000 {
			return excelSerialToDate(f).Format("02/01/2006"), true
		}
	}
	return "", false
}

var dddFilialRegex = regexp.MustCompile(`\d{2}`)

// extrairDDDFilial extrai o código de área do rótulo de filial
// (primeira sequência de dois dígitos); 0 quando não identificável.
func extrairDDDFilial(filial string) int {
	m := dddFilialRegex.FindString(filial)
	if m == "" {
		return 0
	}
	ddd, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return ddd
}

func celula(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// lerPlanilhaVendas extrai as linhas cruas de vendas de uma planilha já
// carimbada com o DDD do formulário. Layout fixo, cabeçalho na primeira
// linha: vendedor, qtd vendas, vendas líquidas, vendas brutas, qtd
// cobranças, cobranças líquidas, cobranças brutas.
func lerPlanilhaVendas(file io.Reader, ddd int, rel *domain.RelatorioProcessamento) ([]domain.VendaRow, error) {
	rows, err := loadGenericExcel(file)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar planilha de vendas: %w", err)
	}

	var vendas []domain.VendaRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if rel != nil {
			rel.LinhasVendasLidas++
		}

		vendedor := celula(row, 0)
		if vendedor == "" || strings.EqualFold(vendedor, "total") {
			if rel != nil {
				rel.LinhasVendasExcluidas++
			}
			continue
		}

		valor := func(idx int) float64 {
			v, err := parseBRLNumber(celula(row, idx))
			if err != nil {
				if rel != nil {
					rel.ValoresInvalidos++
				}
				return 0
			}
			return v
		}

		vendas = append(vendas, domain.VendaRow{
			Vendedor:              vendedor,
			DDD:                   ddd,
			QtdVendas:             valor(1),
			ValorLiquidoVendas:    valor(2),
			ValorBrutoVendas:      valor(3),
			QtdCobrancas:          valor(4),
			ValorLiquidoCobrancas: valor(5),
			ValorBrutoCobrancas:   valor(6),
		})
	}

	return vendas, nil
}

// lerPlanilhaDesmembramentos extrai as linhas cruas da planilha de
// desmembramentos (.xlsx, .xls ou .csv em ISO-8859-1 separado por ';').
// Colunas: C filial (origem do DDD), D vendedor, E código PDV, F valor,
// H vencimento. Linhas incompletas seguem adiante e são filtradas na
// agregação.
func lerPlanilhaDesmembramentos(file io.Reader, filename string, rel *domain.RelatorioProcessamento) ([]domain.DesmembramentoRow, error) {
	var rows [][]string
	var err error

	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		rows, err = lerCSVDesmembramentos(file)
	} else {
		rows, err = loadGenericExcel(file)
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar planilha de desmembramentos: %w", err)
	}

	var desms []domain.DesmembramentoRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if rel != nil {
			rel.LinhasDesmembramentosLidas++
		}

		vendedor := celula(row, 3)
		pdv := celula(row, 4)
		if vendedor == "" && pdv == "" {
			if rel != nil {
				rel.LinhasDesmembramentosExcluidas++
			}
			continue
		}

		valor, err := parseBRLNumber(celula(row, 5))
		if err != nil {
			if rel != nil {
				rel.ValoresInvalidos++
			}
			valor = 0
		}

		vencimento := celula(row, 7)
		if d, ok := parseDateDayFirst(vencimento); ok {
			vencimento = d
		}

		desms = append(desms, domain.DesmembramentoRow{
			DDD:        extrairDDDFilial(celula(row, 2)),
			Vendedor:   vendedor,
			CodigoPDV:  pdv,
			Valor:      valor,
			Vencimento: vencimento,
		})
	}

	return desms, nil
}

func lerCSVDesmembramentos(file io.Reader) ([][]string, error) {
	decoder := charmap.ISO8859_1.NewDecoder()
	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
