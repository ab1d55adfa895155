package js

import (
	"strings"
	"testing"
)

func TestAppendChildBuildsRow(t *testing.T) {
	doc := parseHTML(t, `<table id="grid"><tbody id="body"></tbody></table>`)
	engine := New()
	doc.Scripts = append(doc.Scripts, `
		var body = document.getElementById("body");
		var tr = document.createElement("tr");
		var td = document.createElement("td");
		td.textContent = "new cell";
		tr.appendChild(td);
		body.appendChild(tr);
		if (body.children.length !== 1) throw new Error("row not appended");
		if (td.parentElement.tagName !== "TR") throw new Error("parent wrong");
	`)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}

	body := findByID(doc, "body")
	if len(body.ElementChildren()) != 1 {
		t.Fatal("row not visible from Go")
	}
	if got := textContent(body); got != "new cell" {
		t.Errorf("text = %q", got)
	}
}

func TestRemoveChildAndRemove(t *testing.T) {
	doc := parseHTML(t, `<table><tbody id="body">
		<tr id="r1"><td>a</td></tr>
		<tr id="r2"><td>b</td></tr>
	</tbody></table>`)
	engine := New()
	doc.Scripts = append(doc.Scripts, `
		var body = document.getElementById("body");
		body.removeChild(document.getElementById("r1"));
		document.getElementById("r2").remove();
		if (body.children.length !== 0) throw new Error("rows remain: " + body.children.length);
	`)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
}

func TestRemoveChildOfWrongParentThrows(t *testing.T) {
	doc := parseHTML(t, `<div id="a"></div><div id="b"><span id="c"></span></div>`)
	engine := New()
	doc.Scripts = append(doc.Scripts, `
		var threw = false;
		try {
			document.getElementById("a").removeChild(document.getElementById("c"));
		} catch (e) {
			threw = true;
		}
		if (!threw) throw new Error("expected TypeError");
	`)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
}

func TestInsertBefore(t *testing.T) {
	doc := parseHTML(t, `<table><tbody id="body"><tr id="last"><td>z</td></tr></tbody></table>`)
	engine := New()
	doc.Scripts = append(doc.Scripts, `
		var body = document.getElementById("body");
		var tr = document.createElement("tr");
		tr.id = "first";
		body.insertBefore(tr, document.getElementById("last"));
		if (body.children[0].id !== "first") throw new Error("order: " + body.children[0].id);
	`)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
}

func TestInnerHTMLParsesTableRows(t *testing.T) {
	doc := parseHTML(t, `<table><tbody id="body"></tbody></table>`)
	engine := New()
	doc.Scripts = append(doc.Scripts, `
		var body = document.getElementById("body");
		body.innerHTML = "<tr><td colspan='2'>a</td></tr><tr><td>b</td><td>c</td></tr>";
		if (body.children.length !== 2) throw new Error("rows: " + body.children.length);
		if (body.rows[0].cells[0].getAttribute("colspan") !== "2") throw new Error("colspan lost");
	`)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
}

func TestOuterHTMLSerialization(t *testing.T) {
	doc := parseHTML(t, `<td id="cell" class="x">a</td>`)
	engine := New()
	doc.Scripts = append(doc.Scripts, `
		var html = document.getElementById("cell").outerHTML;
		if (html.indexOf("class=\"x\"") < 0) throw new Error("attr missing: " + html);
	`)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}

	cell := findByID(doc, "cell")
	if !strings.Contains(cell.SerializeOuter(), "<td") {
		t.Error("serialization broken")
	}
}

func TestAppendChildReparents(t *testing.T) {
	doc := parseHTML(t, `<div id="a"><span id="s">x</span></div><div id="b"></div>`)
	engine := New()
	doc.Scripts = append(doc.Scripts, `
		var s = document.getElementById("s");
		document.getElementById("b").appendChild(s);
		if (document.getElementById("a").children.length !== 0) throw new Error("not detached");
		if (s.parentElement.id !== "b") throw new Error("not reparented");
	`)
	if err := engine.Execute(doc); err != nil {
		t.Fatal(err)
	}
}
