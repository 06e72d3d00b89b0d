package procedure_test

import (
	"strings"
	"testing"

	"sp-depends/internal/procedure"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noDefaults = procedure.Options{}

func TestExtract_AliasedJoin(t *testing.T) {
	sql := `CREATE PROCEDURE dbo.GetOrders AS
SELECT a.Id, b.Name FROM Db.Sch.Orders AS a JOIN Db.Sch.Customers AS b ON a.CustId = b.Id`

	ex := procedure.Extract(sql, noDefaults)

	assert.Equal(t, []string{"Db.Sch.Customers", "Db.Sch.Orders"}, ex.Tables.Sorted())
	require.Contains(t, ex.Columns, "Db.Sch.Orders")
	require.Contains(t, ex.Columns, "Db.Sch.Customers")
	assert.Equal(t, []string{"CustId", "Id"}, ex.Columns["Db.Sch.Orders"].Sorted())
	assert.Equal(t, []string{"Id", "Name"}, ex.Columns["Db.Sch.Customers"].Sorted())
	assert.Empty(t, ex.Unresolved)
}

func TestExtract_JoinPredicateOnly(t *testing.T) {
	sql := `select 1 as One from A as a join B as b on a.x = b.y`

	ex := procedure.Extract(sql, noDefaults)

	assert.Equal(t, []string{"A", "B"}, ex.Tables.Sorted())
	assert.Equal(t, []string{"x"}, ex.Columns["A"].Sorted())
	assert.Equal(t, []string{"y"}, ex.Columns["B"].Sorted())
}

func TestExtract_ImplicitAliasAndBrackets(t *testing.T) {
	sql := `CREATE PROCEDURE [dbo].[usp_Lines]
AS
BEGIN
	SET NOCOUNT ON;
	-- FROM Commented.Out.Table c
	SELECT [l].[LineId], o.[Total], [Orders].[Status]
	FROM [Sales].[OrderLines] [l]
	INNER JOIN [Sales].[Orders] ON [l].[OrderId] = [Orders].[Id]
	LEFT OUTER JOIN Sales.Orders o WITH (NOLOCK) ON o.Id = l.OrderId
	WHERE l.Qty > 0
END`

	ex := procedure.Extract(sql, procedure.Options{DefaultDatabase: "ThisDB", DefaultSchema: "dbo"})

	assert.Equal(t, []string{"ThisDB.Sales.OrderLines", "ThisDB.Sales.Orders"}, ex.Tables.Sorted())
	assert.Equal(t, []string{"LineId", "OrderId"}, ex.Columns["ThisDB.Sales.OrderLines"].Sorted())
	assert.Equal(t, []string{"Id", "Status", "Total"}, ex.Columns["ThisDB.Sales.Orders"].Sorted())
	assert.Empty(t, ex.Unresolved)
}

func TestExtract_DefaultDatabaseAndSchema(t *testing.T) {
	sql := `SELECT Customers.Name FROM Customers JOIN sales.Regions r ON Customers.RegionId = r.Id`

	ex := procedure.Extract(sql, procedure.Options{DefaultDatabase: "ThisDB"})

	assert.Equal(t, []string{"ThisDB.dbo.Customers", "ThisDB.sales.Regions"}, ex.Tables.Sorted())
	assert.Equal(t, []string{"Name", "RegionId"}, ex.Columns["ThisDB.dbo.Customers"].Sorted())
	assert.Equal(t, []string{"Id"}, ex.Columns["ThisDB.sales.Regions"].Sorted())
}

func TestExtract_UnresolvedAliasIsSeparated(t *testing.T) {
	sql := `SELECT x.Missing, a.Id FROM Db.Sch.A a`

	ex := procedure.Extract(sql, noDefaults)

	assert.Equal(t, []string{"Db.Sch.A"}, ex.Tables.Sorted())
	assert.Equal(t, []string{"Id"}, ex.Columns["Db.Sch.A"].Sorted())
	require.Contains(t, ex.Unresolved, "x")
	assert.Equal(t, []string{"Missing"}, ex.Unresolved["x"].Sorted())
	assert.NotContains(t, ex.Columns, "x")
}

func TestExtract_SkipsFunctionsAndDerivedTables(t *testing.T) {
	sql := `SELECT dbo.fnFormat(a.Code), a.Id
FROM Db.Sch.A a
JOIN dbo.fnRows(1) f ON f.Id = a.Id
JOIN (SELECT 1 AS Id) d ON d.Id = a.Id`

	ex := procedure.Extract(sql, noDefaults)

	assert.Equal(t, []string{"Db.Sch.A"}, ex.Tables.Sorted())
	assert.Equal(t, []string{"Code", "Id"}, ex.Columns["Db.Sch.A"].Sorted())
	assert.NotContains(t, ex.Unresolved, "dbo")
}

func TestExtract_UnicodeIdentifiers(t *testing.T) {
	sql := `SELECT g.Menge FROM Lager.dbo.Größe g JOIN Lager.dbo.Bestellung b ON g.Id = b.GrößeId`

	ex := procedure.Extract(sql, noDefaults)

	assert.Equal(t, []string{"Lager.dbo.Bestellung", "Lager.dbo.Größe"}, ex.Tables.Sorted())
	assert.Equal(t, []string{"Id", "Menge"}, ex.Columns["Lager.dbo.Größe"].Sorted())
	assert.Equal(t, []string{"GrößeId"}, ex.Columns["Lager.dbo.Bestellung"].Sorted())
	assert.Empty(t, ex.Unresolved)
}

func TestExtract_StatementAfterUnaliasedTable(t *testing.T) {
	for _, next := range []string{"COMMIT TRANSACTION", "rollback", "PRINT 'done'", "GO", "RAISERROR('x', 16, 1)", "THROW"} {
		t.Run(next, func(t *testing.T) {
			ex := procedure.Extract("SELECT Orders.Id FROM Orders\n"+next, noDefaults)

			assert.Equal(t, []string{"Orders"}, ex.Tables.Sorted())
			assert.Equal(t, []string{"Id"}, ex.Columns["Orders"].Sorted())
			assert.Empty(t, ex.Unresolved)
		})
	}
}

func TestExtract_EmptyBody(t *testing.T) {
	ex := procedure.Extract(`CREATE PROCEDURE P AS SELECT 1`, noDefaults)

	assert.Empty(t, ex.Tables)
	assert.Empty(t, ex.Columns)
	assert.Empty(t, ex.Unresolved)
}

func TestExtract_DuplicateTablesCollapse(t *testing.T) {
	sql := `SELECT a.Id FROM Db.S.T a JOIN Db.S.T b ON a.Id = b.ParentId`

	ex := procedure.Extract(sql, noDefaults)

	assert.Equal(t, []string{"Db.S.T"}, ex.Tables.Sorted())
	assert.Equal(t, []string{"Id", "ParentId"}, ex.Columns["Db.S.T"].Sorted())
}

func TestExtract_TableNameAsOwnAlias(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 25; i++ {
		left := "L" + faker.LetterN(6)
		right := "R" + faker.LetterN(6)
		x := "c" + faker.LetterN(5)
		y := "c" + faker.LetterN(5)

		distinct := "SELECT a." + x + " FROM Db.S." + left + " AS a JOIN Db.S." + right + " AS b ON a." + x + " = b." + y
		self := "SELECT " + left + "." + x + " FROM Db.S." + left + " AS " + left +
			" JOIN Db.S." + right + " AS " + right + " ON " + left + "." + x + " = " + right + "." + y

		want := procedure.New("P", procedure.Extract(distinct, noDefaults))
		got := procedure.New("P", procedure.Extract(self, noDefaults))
		assert.Equal(t, want, got, self)
	}
}

func TestExtract_NoBracketsInOutput(t *testing.T) {
	sql := `SELECT [a].[Col One], [b].[Col2] FROM [D].[S].[T 1] AS [a] JOIN [D].[S].[T2] [b] ON [a].[K] = [b].[K]`

	sp := procedure.New("P", procedure.Extract(sql, noDefaults))

	for _, table := range sp.Tables {
		assert.False(t, strings.ContainsAny(table, "[]"), table)
	}
	for table, cols := range sp.Columns {
		assert.False(t, strings.ContainsAny(table, "[]"), table)
		for _, c := range cols {
			assert.False(t, strings.ContainsAny(c, "[]"), c)
		}
	}
	assert.Equal(t, []string{"Col One", "K"}, sp.Columns["D.S.T 1"])
	assert.Equal(t, []string{"Col2", "K"}, sp.Columns["D.S.T2"])
}

func TestExtractName(t *testing.T) {
	assert.Equal(t, "dbo.usp_Orders", procedure.ExtractName("CREATE PROCEDURE [dbo].[usp_Orders] @Id INT AS SELECT 1"))
	assert.Equal(t, "Rpt", procedure.ExtractName("create or alter proc Rpt as select 1"))
	assert.Equal(t, procedure.UnknownName, procedure.ExtractName("SELECT 1"))
	assert.Equal(t, "Real", procedure.ExtractName("/* CREATE PROCEDURE Fake */ CREATE PROCEDURE Real AS SELECT 1"))
}
