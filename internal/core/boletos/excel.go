package boletos

import (
	"fmt"
	"sort"
	"strings"

	"boleto-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const formatoMoeda = `"R$" #,##0.00`

var caracteresAbaInvalidos = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "-", "*", "-", "[", "-", "]", "-")

// nomeAba sanitiza um nome de aba para os limites do formato xlsx.
func nomeAba(s string) string {
	s = caracteresAbaInvalidos.Replace(s)
	if len(s) > 31 {
		s = s[:31]
	}
	return strings.TrimSpace(s)
}

type estilosPlanilha struct {
	titulo       int
	cabecalho    int
	dado         int
	valor        int
	vendedorDesm int
	pdvDesm      int
	totalRotulo  int
	totalValor   int
}

func novosEstilos(f *excelize.File) (*estilosPlanilha, error) {
	bordas := []excelize.Border{
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
	}
	moeda := formatoMoeda

	titulo, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	cabecalho, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	dado, err := f.NewStyle(&excelize.Style{
		Border:    bordas,
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	valor, err := f.NewStyle(&excelize.Style{
		Border:       bordas,
		Alignment:    &excelize.Alignment{Vertical: "center"},
		CustomNumFmt: &moeda,
	})
	if err != nil {
		return nil, err
	}
	vendedorDesm, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Italic: true},
		Border:    bordas,
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	pdvDesm, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FF0000"},
		Border:    bordas,
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	totalRotulo, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: bordas,
	})
	if err != nil {
		return nil, err
	}
	totalValor, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       bordas,
		CustomNumFmt: &moeda,
	})
	if err != nil {
		return nil, err
	}

	return &estilosPlanilha{
		titulo:       titulo,
		cabecalho:    cabecalho,
		dado:         dado,
		valor:        valor,
		vendedorDesm: vendedorDesm,
		pdvDesm:      pdvDesm,
		totalRotulo:  totalRotulo,
		totalValor:   totalValor,
	}, nil
}

// gerarExcelBoletos monta o arquivo final: uma aba por DDD presente na
// saída (ordem crescente), linha de título com o período, cabeçalho
// estilizado, valores em formato de moeda, PDV de desmembramentos em
// vermelho e uma linha de total por aba.
func gerarExcelBoletos(boletos []domain.Boleto, periodo string) ([]byte, error) {
	porDDD := make(map[int][]domain.Boleto)
	var ddds []int
	for _, b := range boletos {
		if _, ok := porDDD[b.DDD]; !ok {
			ddds = append(ddds, b.DDD)
		}
		porDDD[b.DDD] = append(porDDD[b.DDD], b)
	}
	sort.Ints(ddds)

	f := excelize.NewFile()
	defer f.Close()

	estilos, err := novosEstilos(f)
	if err != nil {
		return nil, fmt.Errorf("erro ao preparar estilos: %w", err)
	}

	primeiraAba := -1
	for _, ddd := range ddds {
		aba := nomeAba(fmt.Sprintf("DDD %d - %s", ddd, periodo))
		idx, err := f.NewSheet(aba)
		if err != nil {
			return nil, fmt.Errorf("erro ao criar aba %q: %w", aba, err)
		}
		if primeiraAba == -1 {
			primeiraAba = idx
		}
		if err := preencherAba(f, aba, estilos, porDDD[ddd], ddd, periodo); err != nil {
			return nil, err
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if primeiraAba != -1 {
		f.SetActiveSheet(primeiraAba)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("erro ao gravar planilha final: %w", err)
	}
	return buffer.Bytes(), nil
}

func preencherAba(f *excelize.File, aba string, estilos *estilosPlanilha, boletos []domain.Boleto, ddd int, periodo string) error {
	larguras := map[string]float64{"A": 12, "B": 30, "C": 15, "D": 15, "E": 15, "F": 12}
	for col, largura := range larguras {
		if err := f.SetColWidth(aba, col, col, largura); err != nil {
			return err
		}
	}

	titulo := fmt.Sprintf("BOLETO ESTRUTURAL - PERÍODO %s - DDD %d", periodo, ddd)
	if err := f.SetCellValue(aba, "A1", titulo); err != nil {
		return err
	}
	if err := f.MergeCell(aba, "A1", "F1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(aba, "A1", "F1", estilos.titulo); err != nil {
		return err
	}
	if err := f.SetRowHeight(aba, 1, 25); err != nil {
		return err
	}

	cabecalho := []string{"Nº Número", "Vendedor", "Valor R$", "Data da Venda", "Vencimento", "Código PDV"}
	for i, texto := range cabecalho {
		celula := fmt.Sprintf("%c2", 'A'+i)
		if err := f.SetCellValue(aba, celula, texto); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(aba, "A2", "F2", estilos.cabecalho); err != nil {
		return err
	}

	total := decimal.Zero
	linha := 3
	for _, b := range boletos {
		vencimento := b.Vencimento
		if vencimento == "" {
			vencimento = periodo
		}

		if err := f.SetCellValue(aba, fmt.Sprintf("A%d", linha), b.Numero); err != nil {
			return err
		}
		if err := f.SetCellValue(aba, fmt.Sprintf("B%d", linha), b.Vendedor); err != nil {
			return err
		}
		if err := f.SetCellValue(aba, fmt.Sprintf("C%d", linha), b.Valor); err != nil {
			return err
		}
		if err := f.SetCellValue(aba, fmt.Sprintf("D%d", linha), periodo); err != nil {
			return err
		}
		if err := f.SetCellValue(aba, fmt.Sprintf("E%d", linha), vencimento); err != nil {
			return err
		}
		if err := f.SetCellValue(aba, fmt.Sprintf("F%d", linha), b.CodigoPDV); err != nil {
			return err
		}

		if err := f.SetCellStyle(aba, fmt.Sprintf("A%d", linha), fmt.Sprintf("F%d", linha), estilos.dado); err != nil {
			return err
		}
		if err := f.SetCellStyle(aba, fmt.Sprintf("C%d", linha), fmt.Sprintf("C%d", linha), estilos.valor); err != nil {
			return err
		}
		if b.IsDesmembramento && b.CodigoPDV != "" {
			if err := f.SetCellStyle(aba, fmt.Sprintf("B%d", linha), fmt.Sprintf("B%d", linha), estilos.vendedorDesm); err != nil {
				return err
			}
			if err := f.SetCellStyle(aba, fmt.Sprintf("F%d", linha), fmt.Sprintf("F%d", linha), estilos.pdvDesm); err != nil {
				return err
			}
		}

		total = total.Add(decimal.NewFromFloat(b.Valor))
		linha++
	}

	if err := f.SetCellValue(aba, fmt.Sprintf("B%d", linha), "TOTAL"); err != nil {
		return err
	}
	if err := f.SetCellStyle(aba, fmt.Sprintf("B%d", linha), fmt.Sprintf("B%d", linha), estilos.totalRotulo); err != nil {
		return err
	}
	if err := f.SetCellValue(aba, fmt.Sprintf("C%d", linha), total.InexactFloat64()); err != nil {
		return err
	}
	return f.SetCellStyle(aba, fmt.Sprintf("C%d", linha), fmt.Sprintf("C%d", linha), estilos.totalValor)
}
