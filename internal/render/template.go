package render

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>RSS Feed</title>
  <style>
    * { box-sizing: border-box; margin: 0; padding: 0; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
      background: #0a0a0a; color: #e5e5e5; line-height: 1.6;
      padding: 2rem; max-width: 900px; margin: 0 auto;
    }
    header { margin-bottom: 2rem; }
    .group-tabs {
      display: flex; flex-wrap: wrap; gap: 0.5rem;
      padding-bottom: 1rem; border-bottom: 1px solid #333;
    }
    .source-filters { display: flex; flex-wrap: wrap; gap: 0.4rem; padding-top: 1rem; }
    .tab {
      background: #1a1a1a; border: 1px solid #333; color: #e5e5e5;
      padding: 0.5rem 1rem; border-radius: 4px; cursor: pointer; font-size: 0.9rem;
    }
    .tab.active { background: #333; border-color: #60a5fa; color: #fff; }
    .tab.saved-tab { margin-left: auto; }
    .filter-btn {
      background: #1a1a1a; border: 1px solid #282828; color: #999;
      padding: 0.3rem 0.7rem; border-radius: 3px; cursor: pointer; font-size: 0.8rem;
    }
    .filter-btn.active { background: #2a2a2a; border-color: #60a5fa; color: #fff; }
    .article { padding: 1.5rem 0; border-bottom: 1px solid #222; }
    .article.hidden { display: none; }
    .article-header { display: flex; justify-content: space-between; align-items: flex-start; gap: 1rem; }
    .article-content { flex: 1; }
    .meta { display: flex; gap: 1rem; font-size: 0.85rem; color: #888; margin-bottom: 0.5rem; }
    .source { color: #60a5fa; }
    .title { font-size: 1.1rem; font-weight: 500; margin-bottom: 0.5rem; }
    .title a { color: #fff; text-decoration: none; }
    .title a:hover { color: #60a5fa; }
    .description { font-size: 0.9rem; color: #a3a3a3; }
    .save-btn {
      background: none; border: 1px solid #333; color: #666;
      padding: 0.4rem 0.6rem; border-radius: 4px; cursor: pointer;
      font-size: 0.8rem; white-space: nowrap;
    }
    .save-btn.saved { background: #1e3a5f; border-color: #60a5fa; color: #60a5fa; }
    #savedArticles { display: none; }
    #savedArticles.active { display: block; }
    #feedArticles.hidden { display: none; }
    .empty-state { text-align: center; padding: 3rem; color: #666; }
  </style>
</head>
<body>
  <header>
    <div class="group-tabs">
      {{- range $i, $g := .Groups}}
      <button class="tab{{if eq $i 0}} active{{end}}" data-group="{{$g.Name}}">{{$g.Name}}</button>
      {{- end}}
      <button class="tab saved-tab" data-group="__saved__">Saved</button>
    </div>
    <div class="source-filters" id="sourceFilters"></div>
  </header>

  <main id="feedArticles">
    {{- range .Articles}}
    <article class="article" data-source="{{.SourceID}}" data-link="{{.Link}}">
      <div class="article-header">
        <div class="article-content">
          <div class="meta">
            <span class="source">{{.SourceName}}</span>
            <span class="date">{{formatDate .Date}}</span>
          </div>
          <h2 class="title">
            <a href="{{.Link}}" target="_blank" rel="noopener">{{.Title}}</a>
          </h2>
          {{- if .Description}}
          <p class="description">{{truncate .Description}}</p>
          {{- end}}
        </div>
        <button class="save-btn" data-link="{{.Link}}" data-title="{{.Title}}"
          data-source="{{.SourceName}}" data-source-id="{{.SourceID}}"
          data-date="{{formatDate .Date}}" data-description="{{truncate .Description}}">Save</button>
      </div>
    </article>
    {{- end}}
  </main>

  <main id="savedArticles">
    <div class="empty-state" id="emptyState">No saved articles yet</div>
  </main>

  <script>
    const groups = {{.GroupsJSON}};
    const sourceNames = {{.SourceNamesJSON}};

    let currentGroup = {{.FirstGroup}};
    let currentSource = 'all';
    let savedLinks = new Set();

    async function loadSavedState() {
      try {
        const links = Array.from(document.querySelectorAll('.save-btn')).map(btn => btn.dataset.link);
        const res = await fetch('/api/saved/check', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json' },
          body: JSON.stringify({ links })
        });
        const data = await res.json();
        savedLinks = new Set(data.saved);
        updateSaveButtons();
      } catch (e) {
        console.error('Failed to load saved state:', e);
      }
    }

    function updateSaveButtons() {
      document.querySelectorAll('.save-btn').forEach(btn => {
        const isSaved = savedLinks.has(btn.dataset.link);
        btn.classList.toggle('saved', isSaved);
        btn.textContent = isSaved ? 'Saved' : 'Save';
      });
    }

    async function toggleSave(btn) {
      const link = btn.dataset.link;
      try {
        if (savedLinks.has(link)) {
          await fetch('/api/save', {
            method: 'DELETE',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify({ link })
          });
          savedLinks.delete(link);
        } else {
          await fetch('/api/save', {
            method: 'POST',
            headers: { 'Content-Type': 'application/json' },
            body: JSON.stringify({
              link,
              title: btn.dataset.title,
              source: btn.dataset.source,
              sourceId: btn.dataset.sourceId,
              date: btn.dataset.date,
              description: btn.dataset.description
            })
          });
          savedLinks.add(link);
        }
        updateSaveButtons();
      } catch (e) {
        console.error('Failed to toggle save:', e);
      }
    }

    async function loadSavedArticles() {
      const container = document.getElementById('savedArticles');
      const emptyState = document.getElementById('emptyState');
      try {
        const res = await fetch('/api/saved');
        const articles = await res.json();
        container.querySelectorAll('.article').forEach(el => el.remove());
        emptyState.style.display = articles.length === 0 ? 'block' : 'none';

        articles.forEach(article => {
          const el = document.createElement('article');
          el.className = 'article';

          const header = document.createElement('div');
          header.className = 'article-header';

          const content = document.createElement('div');
          content.className = 'article-content';

          const meta = document.createElement('div');
          meta.className = 'meta';
          const source = document.createElement('span');
          source.className = 'source';
          source.textContent = article.source || '';
          const date = document.createElement('span');
          date.className = 'date';
          date.textContent = article.date || 'Unknown date';
          meta.append(source, date);

          const title = document.createElement('h2');
          title.className = 'title';
          const a = document.createElement('a');
          a.href = article.link;
          a.target = '_blank';
          a.rel = 'noopener';
          a.textContent = article.title;
          title.appendChild(a);

          content.append(meta, title);
          if (article.description) {
            const desc = document.createElement('p');
            desc.className = 'description';
            desc.textContent = article.description;
            content.appendChild(desc);
          }

          const btn = document.createElement('button');
          btn.className = 'save-btn saved';
          btn.textContent = 'Saved';
          btn.addEventListener('click', async () => {
            await fetch('/api/save', {
              method: 'DELETE',
              headers: { 'Content-Type': 'application/json' },
              body: JSON.stringify({ link: article.link })
            });
            savedLinks.delete(article.link);
            updateSaveButtons();
            loadSavedArticles();
          });

          header.append(content, btn);
          el.appendChild(header);
          container.appendChild(el);
        });
      } catch (e) {
        console.error('Failed to load saved articles:', e);
      }
    }

    function filterArticles() {
      if (currentGroup === '__saved__') return;
      const groupSources = groups[currentGroup] || [];
      document.querySelectorAll('#feedArticles .article').forEach(article => {
        const sourceId = article.dataset.source;
        const inGroup = groupSources.includes(sourceId);
        const matchesSource = currentSource === 'all' || sourceId === currentSource;
        article.classList.toggle('hidden', !(inGroup && matchesSource));
      });
    }

    function renderSourceFilters() {
      const container = document.getElementById('sourceFilters');
      container.innerHTML = '';
      if (currentGroup === '__saved__') return;

      const sources = ['all', ...(groups[currentGroup] || [])];
      sources.forEach(id => {
        const btn = document.createElement('button');
        btn.className = 'filter-btn' + (id === currentSource ? ' active' : '');
        btn.dataset.source = id;
        btn.textContent = id === 'all' ? 'All' : (sourceNames[id] || id);
        btn.addEventListener('click', () => {
          currentSource = id;
          renderSourceFilters();
          filterArticles();
        });
        container.appendChild(btn);
      });
    }

    function switchToGroup(groupName) {
      currentGroup = groupName;
      currentSource = 'all';

      const feedArticles = document.getElementById('feedArticles');
      const savedArticles = document.getElementById('savedArticles');
      const showSaved = groupName === '__saved__';

      feedArticles.classList.toggle('hidden', showSaved);
      savedArticles.classList.toggle('active', showSaved);
      if (showSaved) loadSavedArticles();

      renderSourceFilters();
      filterArticles();
    }

    document.querySelectorAll('.tab').forEach(tab => {
      tab.addEventListener('click', () => {
        document.querySelectorAll('.tab').forEach(t => t.classList.remove('active'));
        tab.classList.add('active');
        switchToGroup(tab.dataset.group);
      });
    });

    document.querySelectorAll('#feedArticles .save-btn').forEach(btn => {
      btn.addEventListener('click', () => toggleSave(btn));
    });

    loadSavedState();
    renderSourceFilters();
    filterArticles();
  </script>
</body>
</html>`
